package hotspot

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Security is the access point's authentication mode.
type Security string

const (
	SecurityWPA  Security = "WPA"
	SecurityWEP  Security = "WEP"
	SecurityNone Security = "nopass"
)

// StartOptions configure Manager.Start.
type StartOptions struct {
	SSID     string   `json:"ssid" validate:"required,max=32"`
	Password string   `json:"password,omitempty"`
	Security Security `json:"security,omitempty" validate:"oneof=WPA WEP nopass"`
	Ifname   string   `json:"ifname,omitempty"`
}

// StatusOptions configure Manager.Status.
type StatusOptions struct {
	Ifname string `json:"ifname,omitempty"`
}

const (
	passwordRule = "min=8,max=63"
	maxSSIDBytes = 32
)

// ParseSecurity accepts the spellings used in WiFi QR codes and config files.
// An empty value defaults to WPA.
func ParseSecurity(raw string) Security {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "wpa", "wpa2", "wpa-psk":
		return SecurityWPA
	case "wep":
		return SecurityWEP
	case "nopass", "none", "open":
		return SecurityNone
	default:
		return Security(strings.TrimSpace(raw))
	}
}

// Validate normalizes opts and checks them without running any command.
// The returned options are what Start would use.
func (m *Manager) Validate(opts StartOptions) (StartOptions, error) {
	opts.SSID = strings.TrimSpace(opts.SSID)
	opts.Ifname = strings.TrimSpace(opts.Ifname)
	opts.Security = ParseSecurity(string(opts.Security))
	if opts.Security == SecurityNone {
		opts.Password = ""
	}

	if err := m.validate.Struct(opts); err != nil {
		return opts, classifyValidation(err)
	}
	// the validator counts runes; the 802.11 limit is in bytes
	if len(opts.SSID) > maxSSIDBytes {
		return opts, newError(CodeInvalidSSID, "ssid must be at most %d bytes", maxSSIDBytes)
	}
	if opts.Security != SecurityNone {
		if err := m.validate.Var(opts.Password, passwordRule); err != nil {
			return opts, newError(CodeInvalidPassword, "password must be 8 to 63 characters for %s", opts.Security)
		}
	}
	return opts, nil
}

func classifyValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "SSID":
		if fe.Tag() == "max" {
			return newError(CodeInvalidSSID, "ssid must be at most 32 characters")
		}
		return newError(CodeInvalidSSID, "ssid is required")
	case "Security":
		return newError(CodeInvalidSecurity, "unknown security %q", fe.Value())
	}
	return err
}
