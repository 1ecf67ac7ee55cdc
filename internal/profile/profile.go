package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the bot server.
type Profile struct {
	// Mode can be "prod" or "dev".
	Mode string
	// Addr is the bind address of the server.
	Addr string
	// Port is the port of the server.
	Port int
	// Data is the data directory: menu, synonyms, counter and comanda files.
	Data string
	// MenuPath is the menu file (required at catalog load time).
	MenuPath string
	// SynonymsPath is the optional synonyms file.
	SynonymsPath string

	// VerifyToken is the webhook subscription verify token.
	VerifyToken string
	// WhatsAppToken is the Cloud API bearer token.
	WhatsAppToken string
	// PhoneNumberID is the Cloud API sender phone number id.
	PhoneNumberID string

	// DeliveryFee is the flat delivery fee in the smallest currency unit.
	DeliveryFee int
	// ETAMinutes is the estimated preparation time quoted to customers.
	ETAMinutes int
	// SessionTTL is the idle window after a confirmed order before the
	// conversation resets to start.
	SessionTTL time.Duration

	// Version is the current server version.
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// FromEnv fills credential and tuning fields from VENDOBOT_* environment
// variables.
func (p *Profile) FromEnv() {
	if v := os.Getenv("VENDOBOT_VERIFY_TOKEN"); v != "" {
		p.VerifyToken = v
	}
	if v := os.Getenv("VENDOBOT_WHATSAPP_TOKEN"); v != "" {
		p.WhatsAppToken = v
	}
	if v := os.Getenv("VENDOBOT_PHONE_NUMBER_ID"); v != "" {
		p.PhoneNumberID = v
	}
	if v := os.Getenv("VENDOBOT_DELIVERY_FEE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.DeliveryFee = n
		}
	}
	if v := os.Getenv("VENDOBOT_ETA_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.ETAMinutes = n
		}
	}
	if v := os.Getenv("VENDOBOT_SESSION_TTL_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.SessionTTL = time.Duration(n) * time.Minute
		}
	}
}

// Validate normalizes defaults and rejects configurations the server cannot
// run with. The data directory is created if missing; a missing menu file
// surfaces at first catalog load with a clearer error.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.DeliveryFee < 0 {
		return errors.Errorf("delivery fee must be non-negative, got %d", p.DeliveryFee)
	}
	if p.ETAMinutes <= 0 {
		return errors.Errorf("eta minutes must be positive, got %d", p.ETAMinutes)
	}
	if p.SessionTTL <= 0 {
		return errors.Errorf("session ttl must be positive, got %s", p.SessionTTL)
	}

	if p.Data == "" {
		p.Data = "data"
	}
	abs, err := filepath.Abs(p.Data)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve data directory %s", p.Data)
	}
	p.Data = abs
	if err := os.MkdirAll(p.Data, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create data directory %s", p.Data)
	}

	if p.MenuPath == "" {
		p.MenuPath = filepath.Join(p.Data, "menu.txt")
	}
	if p.SynonymsPath == "" {
		p.SynonymsPath = filepath.Join(p.Data, "synonyms.txt")
	}
	return nil
}
