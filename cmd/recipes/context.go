package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipes/internal/runtimeconfig"
)

// cliFlags holds the persistent flags that override config file values.
type cliFlags struct {
	configPath  string
	sourceDir   string
	outputDir   string
	workers     int
	logLevel    string
	logProvider string
	logFormat   string
}

type commandContext struct {
	flags *cliFlags

	configOnce sync.Once
	config     runtimeconfig.Config
	configErr  error

	moduleOnce sync.Once
	module     *moduleResources
	moduleErr  error
}

func newCommandContext(flags *cliFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (runtimeconfig.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, err := runtimeconfig.Load(c.flags.configPath)
		if err != nil {
			c.configErr = err
			return
		}
		applyFlagOverrides(cmd, &cfg, c.flags)
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureModule(cmd *cobra.Command) (*moduleResources, error) {
	c.moduleOnce.Do(func() {
		cfg, err := c.ensureConfig(cmd)
		if err != nil {
			c.moduleErr = err
			return
		}
		c.module, c.moduleErr = moduleBuilder(moduleOptions{
			config:    cfg,
			logWriter: cmd.ErrOrStderr(),
		})
	})
	return c.module, c.moduleErr
}

func applyFlagOverrides(cmd *cobra.Command, cfg *runtimeconfig.Config, flags *cliFlags) {
	changed := func(name string) bool {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.InheritedFlags().Lookup(name)
		}
		return flag != nil && flag.Changed
	}
	if changed("source") {
		cfg.Sources.Dir = strings.TrimSpace(flags.sourceDir)
	}
	if changed("output") {
		cfg.Output.Dir = strings.TrimSpace(flags.outputDir)
	}
	if changed("workers") {
		cfg.Generator.Workers = flags.workers
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-provider") {
		cfg.Logging.Provider = flags.logProvider
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
}
