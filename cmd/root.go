package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobchat/internal/filtering"
	"github.com/spigell/jobchat/internal/geo"
	"github.com/spigell/jobchat/internal/profile"
	"github.com/spigell/jobchat/internal/recommend"
)

const (
	app       = "jobchat"
	envPrefix = "JOBCHAT"
)

type Config struct {
	Recommend *RecommendConfig `mapstructure:"recommend"`
	Geocoder  *GeocoderConfig  `mapstructure:"geocoder"`
	Profile   *ProfileConfig   `mapstructure:"profile"`
	Fallback  *FallbackConfig  `mapstructure:"fallback"`
	Results   *ResultsConfig   `mapstructure:"results"`
}

type RecommendConfig struct {
	URL         string        `mapstructure:"url"`
	SiteKey     string        `mapstructure:"site-key"`
	SiteKeyFile string        `mapstructure:"site-key-file"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user-agent"`
}

type GeocoderConfig struct {
	URL           string        `mapstructure:"url"`
	CountryCodes  string        `mapstructure:"country-codes"`
	Country       string        `mapstructure:"country"`
	Region        string        `mapstructure:"region"`
	RegionAliases []string      `mapstructure:"region-aliases"`
	UserAgent     string        `mapstructure:"user-agent"`
	Limit         int           `mapstructure:"limit"`
	MinInterval   time.Duration `mapstructure:"min-interval"`
	Workers       int           `mapstructure:"workers"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type ProfileConfig struct {
	FieldOfStudy string   `mapstructure:"field-of-study"`
	Semester     int      `mapstructure:"semester"`
	Interests    []string `mapstructure:"interests"`
	RadiusKm     int      `mapstructure:"radius-km"`
}

type FallbackConfig struct {
	Place      string `mapstructure:"place"`
	Hours      int    `mapstructure:"hours"`
	Keywords   string `mapstructure:"keywords"`
	SearchType string `mapstructure:"search-type"`
}

type ResultsConfig struct {
	Limit        int  `mapstructure:"limit"`
	SkipDistance bool `mapstructure:"skip-distance"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobchat is a terminal chat that collects a job-search profile and shows nearby recommendations",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobchat.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-output", "stderr", "where to write logs (stderr, stdout or a file path)")
	rootCmd.PersistentFlags().Bool("skip-distance", false, "do not filter recommendations by distance")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-output", rootCmd.PersistentFlags().Lookup("log-output"))
	viper.BindPFlag("results.skip-distance", rootCmd.PersistentFlags().Lookup("skip-distance"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	defaults := profile.DefaultDefaults()
	fallback := recommend.DefaultFallback()

	v.SetDefault("recommend.url", recommend.DefaultURL)
	v.SetDefault("recommend.site-key", "")
	v.SetDefault("recommend.site-key-file", "")
	v.SetDefault("recommend.timeout", 60*time.Second)
	v.SetDefault("recommend.user-agent", app+"/"+version)

	v.SetDefault("geocoder.url", geo.DefaultURL)
	v.SetDefault("geocoder.country-codes", geo.DefaultCountryCodes)
	v.SetDefault("geocoder.country", geo.DefaultCountry)
	v.SetDefault("geocoder.region", geo.DefaultRegion)
	v.SetDefault("geocoder.region-aliases", geo.DefaultRegionAliases)
	v.SetDefault("geocoder.user-agent", app+"/"+version+" (geocoding)")
	v.SetDefault("geocoder.limit", 5)
	v.SetDefault("geocoder.min-interval", time.Second)
	v.SetDefault("geocoder.workers", 1)
	v.SetDefault("geocoder.timeout", 10*time.Second)

	v.SetDefault("profile.field-of-study", defaults.FieldOfStudy)
	v.SetDefault("profile.semester", defaults.Semester)
	v.SetDefault("profile.interests", defaults.Interests)
	v.SetDefault("profile.radius-km", defaults.RadiusKm)

	v.SetDefault("fallback.place", fallback.Place)
	v.SetDefault("fallback.hours", fallback.Hours)
	v.SetDefault("fallback.keywords", fallback.Keywords)
	v.SetDefault("fallback.search-type", string(fallback.SearchType))

	v.SetDefault("results.limit", filtering.DefaultLimit)
	v.SetDefault("results.skip-distance", false)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Only an explicitly requested config file is mandatory.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
