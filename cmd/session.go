package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/chat"
	"github.com/spigell/jobchat/internal/conversation"
	"github.com/spigell/jobchat/internal/geo"
	"github.com/spigell/jobchat/internal/logger"
	"github.com/spigell/jobchat/internal/profile"
	"github.com/spigell/jobchat/internal/recommend"
	"github.com/spigell/jobchat/internal/secrets"
)

// setup builds the logger and the configuration shared by every command.
func setup() (*zap.Logger, *Config, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-output"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return log, nil, fmt.Errorf("getting a config: %w", err)
	}

	if config == nil || config.Recommend == nil || config.Geocoder == nil ||
		config.Profile == nil || config.Fallback == nil || config.Results == nil {
		return log, nil, errors.New("incomplete config")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(*config), "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return log, config, nil
}

func redacted(config Config) Config {
	if config.Recommend != nil && config.Recommend.SiteKey != "" {
		r := *config.Recommend
		r.SiteKey = "***"
		config.Recommend = &r
	}
	return config
}

func newSession(config *Config, presenter chat.Presenter, log *zap.Logger) (*conversation.Session, error) {
	siteKey, err := secrets.Load(secrets.Source{
		Name:     "recommendation site key",
		Value:    config.Recommend.SiteKey,
		File:     config.Recommend.SiteKeyFile,
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	client, err := recommend.New(recommend.Config{
		URL:       config.Recommend.URL,
		SiteKey:   siteKey,
		UserAgent: config.Recommend.UserAgent,
		Timeout:   config.Recommend.Timeout,
	}, log.With(zap.String("component", "recommend")))
	if err != nil {
		return nil, fmt.Errorf("building recommendation client: %w", err)
	}

	geoLogger := log.With(zap.String("component", "geo"))
	resolver := geo.NewResolver(geo.Config{
		URL:           config.Geocoder.URL,
		Region:        config.Geocoder.Region,
		RegionAliases: config.Geocoder.RegionAliases,
		Country:       config.Geocoder.Country,
		CountryCodes:  config.Geocoder.CountryCodes,
		UserAgent:     config.Geocoder.UserAgent,
		Limit:         config.Geocoder.Limit,
		MinInterval:   config.Geocoder.MinInterval,
		Timeout:       config.Geocoder.Timeout,
	}, geoLogger)

	return conversation.NewSession(conversation.Config{
		Defaults: profile.Defaults{
			FieldOfStudy: config.Profile.FieldOfStudy,
			Semester:     config.Profile.Semester,
			Interests:    config.Profile.Interests,
			RadiusKm:     config.Profile.RadiusKm,
		},
		Fallback: recommend.Fallback{
			Place:      config.Fallback.Place,
			Hours:      config.Fallback.Hours,
			SearchType: profile.SearchType(config.Fallback.SearchType),
			Keywords:   config.Fallback.Keywords,
		},
		Limit:        config.Results.Limit,
		SkipDistance: config.Results.SkipDistance,
	}, conversation.Deps{
		Recommender: client,
		Ranker:      geo.NewRanker(resolver, config.Geocoder.Workers, geoLogger),
		Presenter:   presenter,
		Logger:      log,
	})
}
