package geoip

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Locator resolves ISO country codes for client IPs using a MaxMind GeoIP2
// database. A nil Locator is valid and reports no country, so callers can
// wire it unconditionally.
type Locator struct {
	reader *geoip2.Reader
}

// Open loads the GeoIP database at path. An empty path yields a nil
// Locator without error.
func Open(path string) (*Locator, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Locator{reader: reader}, nil
}

// Country returns the ISO country code for ip, or the empty string when it
// cannot be determined. Lookups are best effort; locale detection must not
// fail a request.
func (l *Locator) Country(ip string) string {
	if l == nil || l.reader == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	record, err := l.reader.Country(parsed)
	if err != nil || record == nil {
		return ""
	}
	return record.Country.IsoCode
}

// Close closes the underlying database reader.
func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}
