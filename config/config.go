package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Host     string `mapstructure:"host"`
			Port     string `mapstructure:"port"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		RateLimit      int           `mapstructure:"rateLimit"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Source struct {
		// Driver is one of file, http or postgres.
		Driver      string        `mapstructure:"driver"`
		File        string        `mapstructure:"file"`
		URL         string        `mapstructure:"url"`
		Timeout     time.Duration `mapstructure:"timeout"`
		CacheTTL    time.Duration `mapstructure:"cacheTTL"`
		SeedOnStart bool          `mapstructure:"seedOnStart"`
	} `mapstructure:"source"`
	Cache struct {
		// Driver is memory, redis or none.
		Driver string `mapstructure:"driver"`
	} `mapstructure:"cache"`
	Queries struct {
		IncomeAndCar struct {
			Cars      []string `mapstructure:"cars"`
			MaxIncome float64  `mapstructure:"maxIncome"`
		} `mapstructure:"incomeAndCar"`
		GenderAndPhonePrice struct {
			Gender        string  `mapstructure:"gender"`
			MinPhonePrice float64 `mapstructure:"minPhonePrice"`
		} `mapstructure:"genderAndPhonePrice"`
		NameQuoteEmail struct {
			Prefix         string `mapstructure:"prefix"`
			MinQuoteLength int    `mapstructure:"minQuoteLength"`
		} `mapstructure:"nameQuoteEmail"`
		CarAndDigitFreeEmail struct {
			Cars []string `mapstructure:"cars"`
		} `mapstructure:"carAndDigitFreeEmail"`
		TopCities struct {
			Limit int    `mapstructure:"limit"`
			Scope string `mapstructure:"scope"`
		} `mapstructure:"topCities"`
	} `mapstructure:"queries"`
}

// QueryDefaults maps the queries section onto the parameter types used by
// the insights service.
func (c Config) QueryDefaults() types.QueryDefaults {
	q := c.Queries
	return types.QueryDefaults{
		IncomeAndCar: types.IncomeAndCarParams{
			Cars:      q.IncomeAndCar.Cars,
			MaxIncome: q.IncomeAndCar.MaxIncome,
		},
		GenderAndPhonePrice: types.GenderAndPhonePriceParams{
			Gender:        types.Gender(strings.ToLower(q.GenderAndPhonePrice.Gender)),
			MinPhonePrice: q.GenderAndPhonePrice.MinPhonePrice,
		},
		NameQuoteEmail: types.NameQuoteEmailParams{
			Prefix:         q.NameQuoteEmail.Prefix,
			MinQuoteLength: q.NameQuoteEmail.MinQuoteLength,
		},
		CarAndDigitFreeEmail: types.CarAndDigitFreeEmailParams{
			Cars: q.CarAndDigitFreeEmail.Cars,
		},
		TopCities: types.TopCitiesParams{
			Limit: q.TopCities.Limit,
			Scope: types.QueryName(q.TopCities.Scope),
		},
	}
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Environment overrides, e.g. SOURCE_DRIVER=postgres
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
