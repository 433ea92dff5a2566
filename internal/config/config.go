package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/London"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	// RowStore is the remote REST table store holding the raw appointment
	// slot rows and the admin annotations.
	RowStore struct {
		URL             string `env:"ROWSTORE_URL"`
		APIKey          string `env:"ROWSTORE_API_KEY"`
		SlotsTable      string `env:"ROWSTORE_SLOTS_TABLE" envDefault:"appointment_slots"`
		AdminTable      string `env:"ROWSTORE_ADMIN_TABLE" envDefault:"admin_actions"`
		PageSize        int    `env:"ROWSTORE_PAGE_SIZE" envDefault:"1000"`
		TimeoutSeconds  int    `env:"ROWSTORE_TIMEOUT_SECONDS" envDefault:"10"`
		RawColumnNames  bool   `env:"ROWSTORE_RAW_COLUMN_NAMES" envDefault:"false"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"rota_monitor:rota_monitor"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMq struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri string `env:"RABBITMQ_URL"`

		QueueConfig struct {
			SlotQueueName        string `env:"RABBITMQ_SLOT_QUEUE" envDefault:"rota-monitor.slot.cache"`
			SlotQueueBind        string `env:"RABBITMQ_SLOT_QUEUE_BIND" envDefault:"rowstore.rota-monitor.slot.*.#"`
			SlotQueueExchange    string `env:"RABBITMQ_SLOT_QUEUE_EXCHANGE" envDefault:"rowstore.events"`
			AdminQueueName       string `env:"RABBITMQ_ADMIN_QUEUE" envDefault:"rota-monitor.adminaction.cache"`
			AdminQueueBind       string `env:"RABBITMQ_ADMIN_QUEUE_BIND" envDefault:"rowstore.rota-monitor.adminaction.*.#"`
			AdminQueueExchange   string `env:"RABBITMQ_ADMIN_QUEUE_EXCHANGE" envDefault:"rowstore.events"`
		}
	}

	Cache struct {
		Enabled    bool `env:"CACHE_ENABLED"`
		MonthsSize int  `env:"CACHE_MONTHS_SIZE" envDefault:"24"`
	}

	// Calendar thresholds driving the warning flags
	Calendar struct {
		MondayOnTheDayThreshold  int     `env:"CALENDAR_MONDAY_OTD_THRESHOLD" envDefault:"25"`
		WeekdayOnTheDayThreshold int     `env:"CALENDAR_WEEKDAY_OTD_THRESHOLD" envDefault:"20"`
		NurseLunchHoursThreshold float64 `env:"CALENDAR_NURSE_LUNCH_HOURS_THRESHOLD" envDefault:"3"`
	}

	Alternatives struct {
		MaxResults  int `env:"ALTERNATIVES_MAX_RESULTS" envDefault:"50"`
		HorizonDays int `env:"ALTERNATIVES_HORIZON_DAYS" envDefault:"14"`
	}

	// Identity lists. The source rows carry no staff IDs, so free-text name
	// matching is the identity model; the lists are data, not code.
	Identity struct {
		TraineeIdentifiers []string `env:"IDENTITY_TRAINEE_IDENTIFIERS" envSeparator:"," envDefault:"okafor,beresford"`
		NurseSurnames      []string `env:"IDENTITY_NURSE_SURNAMES" envSeparator:"," envDefault:"masterson,barton,clegg,owens,pritchard"`
	}

	// Named clinicians referenced by the compliance rule table
	Rules struct {
		HCAClinicians      []string `env:"RULES_HCA_CLINICIANS" envSeparator:";" envDefault:"MANSELL, Kelly (Miss);AMISON, Kelly (Miss)"`
		CKDReviewClinician string   `env:"RULES_CKD_REVIEW_CLINICIAN" envDefault:"MANSELL, Kelly (Miss)"`
		B12Clinician       string   `env:"RULES_B12_CLINICIAN" envDefault:"AMISON, Kelly (Miss)"`
		NurseTeam          []string `env:"RULES_NURSE_TEAM" envSeparator:";" envDefault:"MASTERSON, Sarah (Miss);BARTON, Emma (Mrs);CLEGG, Joanne (Mrs);OWENS, Diane (Mrs);PRITCHARD, Helen (Mrs)"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// The month cache is only safe with the invalidation listener running
	if !cfg.RabbitMq.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
