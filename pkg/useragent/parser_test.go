package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_Fallback(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) Mobile Safari", DeviceMobile},
		{"android_phone", "Mozilla/5.0 (Linux; Android 13; Pixel 7) Mobile Chrome", DeviceMobile},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) Safari", DeviceTablet},
		{"kindle", "Mozilla/5.0 (Linux; U; en-us; KFAPWI) Kindle Silk", DeviceTablet},
		{"desktop_windows", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome", DeviceDesktop},
		{"googlebot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", DeviceBot},
		{"empty", "", DeviceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.ua))
		})
	}
}
