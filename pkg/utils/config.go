package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Razorpay  RazorpayConfig
	Kafka     KafkaConfig
	Booking   BookingConfig
	Scheduler SchedulerConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

type KafkaConfig struct {
	Brokers         []string
	SettlementTopic string
	DeadLetterTopic string
	ConsumerGroup   string
}

type BookingConfig struct {
	PaymentWindowMinutes int
	PlatformFeePercent   int
}

type SchedulerConfig struct {
	SweepIntervalMinutes int
}

type WorkerConfig struct {
	Concurrency int
	MaxAttempts int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("RAZORPAY_CURRENCY", "INR")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_SETTLEMENT_TOPIC", "settlement.events")
	viper.SetDefault("KAFKA_DEAD_LETTER_TOPIC", "settlement.events.dlt")
	viper.SetDefault("KAFKA_CONSUMER_GROUP", "settlement-worker")
	viper.SetDefault("PAYMENT_WINDOW_MINUTES", 30)
	viper.SetDefault("PLATFORM_FEE_PERCENT", 10)
	viper.SetDefault("EXPIRY_SWEEP_MINUTES", 5)
	viper.SetDefault("SETTLEMENT_WORKERS", 3)
	viper.SetDefault("SETTLEMENT_MAX_ATTEMPTS", 3)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret:     viper.GetString("RAZORPAY_KEY_SECRET"),
			WebhookSecret: viper.GetString("RAZORPAY_WEBHOOK_SECRET"),
			Currency:      viper.GetString("RAZORPAY_CURRENCY"),
		},
		Kafka: KafkaConfig{
			Brokers:         viper.GetStringSlice("KAFKA_BROKERS"),
			SettlementTopic: viper.GetString("KAFKA_SETTLEMENT_TOPIC"),
			DeadLetterTopic: viper.GetString("KAFKA_DEAD_LETTER_TOPIC"),
			ConsumerGroup:   viper.GetString("KAFKA_CONSUMER_GROUP"),
		},
		Booking: BookingConfig{
			PaymentWindowMinutes: viper.GetInt("PAYMENT_WINDOW_MINUTES"),
			PlatformFeePercent:   viper.GetInt("PLATFORM_FEE_PERCENT"),
		},
		Scheduler: SchedulerConfig{
			SweepIntervalMinutes: viper.GetInt("EXPIRY_SWEEP_MINUTES"),
		},
		Worker: WorkerConfig{
			Concurrency: viper.GetInt("SETTLEMENT_WORKERS"),
			MaxAttempts: viper.GetInt("SETTLEMENT_MAX_ATTEMPTS"),
		},
	}

	return config, nil
}
