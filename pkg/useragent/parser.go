package useragent

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device types reported by the parser.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// Parser wraps the ua-parser regex engine for device-type classification of
// analytics records.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

var (
	globalParser *Parser
	once         sync.Once
)

// NewParser loads the ua-parser regexes file and builds a parser.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	if _, err := os.Stat(regexFilePath); err != nil {
		return nil, fmt.Errorf("regexes file not found at %s: %w", regexFilePath, err)
	}

	parser, err := uaparser.New(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load regexes file: %w", err)
	}

	return &Parser{parser: parser, log: log}, nil
}

// InitGlobalParser initializes the process-wide parser instance.
func InitGlobalParser(regexFilePath string, log *zap.Logger) error {
	var err error
	once.Do(func() {
		globalParser, err = NewParser(regexFilePath, log)
	})
	return err
}

// GetGlobalParser returns the process-wide parser, or nil if uninitialized.
func GetGlobalParser() *Parser {
	return globalParser
}

// DetectDeviceType classifies a User-Agent string.
func (p *Parser) DetectDeviceType(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}

	client := p.parser.Parse(userAgent)

	if isBot(client.UserAgent.Family) || isBot(userAgent) {
		return DeviceBot
	}

	osFamily := client.Os.Family
	switch {
	case strings.Contains(osFamily, "iOS"):
		if strings.Contains(userAgent, "iPad") {
			return DeviceTablet
		}
		return DeviceMobile
	case strings.Contains(osFamily, "Android"):
		// Android tablets typically omit "Mobile" from the User-Agent.
		if strings.Contains(userAgent, "Mobile") {
			return DeviceMobile
		}
		return DeviceTablet
	}

	device := client.Device.Family
	if device != "" && device != "Other" {
		lower := strings.ToLower(device)
		switch {
		case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"), strings.Contains(lower, "kindle"):
			return DeviceTablet
		case strings.Contains(lower, "iphone"), strings.Contains(lower, "phone"), strings.Contains(lower, "mobile"):
			return DeviceMobile
		}
	}

	for _, desktop := range []string{"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS"} {
		if strings.Contains(osFamily, desktop) {
			return DeviceDesktop
		}
	}

	return DeviceUnknown
}

// Detect classifies a User-Agent with keyword matching only. Used as a
// fallback when the regex parser is unavailable.
func Detect(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}

	lower := strings.ToLower(userAgent)
	switch {
	case isBot(lower):
		return DeviceBot
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"), strings.Contains(lower, "kindle"):
		return DeviceTablet
	case strings.Contains(lower, "mobile"), strings.Contains(lower, "android"), strings.Contains(lower, "iphone"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

func isBot(s string) bool {
	lower := strings.ToLower(s)
	for _, indicator := range []string{"bot", "crawler", "spider", "scraper", "facebookexternalhit", "slurp"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
