package gateway

// Config holds the downstream service URLs the gateway proxies to.
type Config struct {
	AuthServiceURL         string `env:"AUTH_SERVICE_URL" envDefault:"http://localhost:3001"`
	UserServiceURL         string `env:"USER_SERVICE_URL" envDefault:"http://localhost:3002"`
	ClinicServiceURL       string `env:"CLINIC_SERVICE_URL" envDefault:"http://localhost:3003"`
	AppointmentServiceURL  string `env:"APPOINTMENT_SERVICE_URL" envDefault:"http://localhost:3004"`
	BillingServiceURL      string `env:"BILLING_SERVICE_URL" envDefault:"http://localhost:3005"`
	NotificationServiceURL string `env:"NOTIFICATION_SERVICE_URL" envDefault:"http://localhost:3006"`
	AIDiagnosisServiceURL  string `env:"AI_DIAGNOSIS_SERVICE_URL" envDefault:"http://localhost:3007"`
	OCRServiceURL          string `env:"PRESCRIPTION_OCR_SERVICE_URL" envDefault:"http://localhost:3008"`
	AnalyticsServiceURL    string `env:"ANALYTICS_SERVICE_URL" envDefault:"http://localhost:3009"`
}
