package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	// Database
	DBUrl string

	// The hotel's local timezone; work dates and the nightly sweep are
	// computed in it.
	HotelTimeZone string

	// External services
	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string
	OpenAIAPIKey     string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// LaunchDarkly flags
	LDFlag_SeedDbWithTestData          bool
	LDFlag_OpenAIDNDPhotoVerification  bool
	LDFlag_CORSHighSecurity            bool
	LDFlag_SendgridSandboxMode         bool
	LDFlag_TwilioFromPhone             string
	LDFlag_SendgridFromEmail           string

	ldClient *ld.LDClient
}

const LDConnectionTimeout = 5 * time.Second

// build-time overrides
var (
	AppName          = "housekeeping-api"
	OrganizationName = "HotelCare"
)

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}
	tz := os.Getenv("HOTEL_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		utils.Logger.WithError(err).Fatalf("Invalid HOTEL_TIMEZONE %q", tz)
	}

	pubKey, err := loadRSAPublicKey(os.Getenv("AUTH_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load auth public key")
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          appPort,
		AppUrl:           appURL,
		Env:              env,
		DBUrl:            dbURL,
		HotelTimeZone:    tz,
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		RSAPublicKey:     pubKey,
	}

	cfg.loadFeatureFlags(os.Getenv("LD_SDK_KEY"))
	return cfg
}

// HotelLocation returns the hotel's *time.Location. The zone was validated
// at load time.
func (c *Config) HotelLocation() *time.Location {
	loc, _ := time.LoadLocation(c.HotelTimeZone)
	return loc
}

func (c *Config) Close() {
	if c.ldClient != nil {
		_ = c.ldClient.Close()
	}
}

// loadFeatureFlags connects to LaunchDarkly when a key is configured and
// falls back to static defaults otherwise (local dev, tests).
func (c *Config) loadFeatureFlags(sdkKey string) {
	if sdkKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set; using default feature flags")
		return
	}

	client, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Warn("LaunchDarkly init failed; using default feature flags")
		return
	}
	c.ldClient = client

	ldCtx := ldcontext.NewBuilder(c.AppName).Kind("service").Build()

	boolFlag := func(name string, def bool) bool {
		v, err := client.BoolVariation(name, ldCtx, def)
		if err != nil {
			utils.Logger.WithError(err).Warnf("LD flag %s unavailable, using default %v", name, def)
			return def
		}
		return v
	}
	stringFlag := func(name string, def string) string {
		v, err := client.StringVariation(name, ldCtx, def)
		if err != nil {
			utils.Logger.WithError(err).Warnf("LD flag %s unavailable, using default %q", name, def)
			return def
		}
		return v
	}

	c.LDFlag_SeedDbWithTestData = boolFlag("seed-db-with-test-data", false)
	c.LDFlag_OpenAIDNDPhotoVerification = boolFlag("openai-dnd-photo-verification", false)
	c.LDFlag_CORSHighSecurity = boolFlag("cors-high-security", c.Env != "dev")
	c.LDFlag_SendgridSandboxMode = boolFlag("sendgrid-sandbox-mode", c.Env != "prod")
	c.LDFlag_TwilioFromPhone = stringFlag("twilio-from-phone", "")
	c.LDFlag_SendgridFromEmail = stringFlag("sendgrid-from-email", "")
}

func loadRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	if b64 == "" {
		return nil, fmt.Errorf("AUTH_PUBLIC_KEY_BASE64 env var is missing")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in auth public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("auth public key is not RSA")
	}
	return rsaPub, nil
}
