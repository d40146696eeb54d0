package cmd

import "time"

type Config struct {
	HTTPPort                 string
	DBHost                   string
	DBPort                   string
	DBUser                   string
	DBPassword               string
	DBName                   string
	DBSslMode                string
	AmqpURL                  string
	ShopServiceURL           string
	AuthServiceURL           string
	NotifyServiceURL         string
	PaymentSecret            string
	BroadcastRadiusMeters    int
	FallbackRadiusMeters     int
	BroadcastStaleAfter      time.Duration
	BroadcastRefreshSchedule string
}
