package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/npo/internal/model"
)

var (
	cfgFile   string
	rulesFile string
	verbose   bool
	logger    *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "npo",
	Short: "npo - Needs, Provisions and Outcomes section assembler",
	Long: `npo assembles the "Needs, Provisions and Outcomes" section of an
Education, Health and Care Plan from source fragments taken from
professional reports.

It does not write new content. Every statement in the section is traced
to a source fragment or to a mandatory override directive, and the
validator reports anything that is not.

npo is an assembler, not an author.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for npo.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("npo v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.npo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rule tables file (YAML), replaces the built-in tables it names")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".npo"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Scalar settings are known to viper so NPO_* variables reach them
	defaults := model.DefaultConfig()
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.dir", defaults.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", defaults.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", defaults.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", defaults.Concurrency.Workers)
	viper.SetDefault("output.clean", defaults.Output.Clean)
	viper.SetDefault("output.fact_mapper", defaults.Output.FactMapper)
	viper.SetDefault("output.allow_critical", defaults.Output.AllowCritical)

	// Read in environment variables that match NPO_* (NPO_CACHE_DIR, ...)
	viper.SetEnvPrefix("NPO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// ruleKeys are the rule tables a config file may replace one by one
var ruleKeys = []string{
	"rules.taxonomy",
	"rules.disambiguation",
	"rules.overrides",
	"rules.strengths",
	"rules.statutory",
	"rules.anonymization",
}

// loadConfig builds the effective configuration: defaults, then the config
// file and environment through viper, then the --rules file. Command flags
// are applied by the caller.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// A rule table named in the config file replaces the built-in one
	// instead of being merged element by element
	for _, key := range ruleKeys {
		if viper.IsSet(key) {
			clearRule(&cfg.Rules, strings.TrimPrefix(key, "rules."))
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if rulesFile != "" {
		if err := loadRules(rulesFile, &cfg.Rules); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func clearRule(rules *model.RulesConfig, name string) {
	switch name {
	case "taxonomy":
		rules.Taxonomy = nil
	case "disambiguation":
		rules.Disambiguation = nil
	case "overrides":
		rules.Overrides = nil
	case "strengths":
		rules.Strengths = model.StrengthRules{}
	case "statutory":
		rules.Statutory = model.StatutoryRules{}
	case "anonymization":
		rules.Anonymization = model.AnonymizationRules{}
	}
}

// loadRules decodes a rule tables file over rules. Tables present in the
// file replace the current ones; absent tables are kept.
func loadRules(path string, rules *model.RulesConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return fmt.Errorf("decode rules file %s: %w", path, err)
	}
	return nil
}
