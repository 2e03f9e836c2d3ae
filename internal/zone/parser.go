// Package zone parses BIND-style zone files into DNS records.
package zone

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/regctl/regctl/internal/core/domain"
)

const defaultTTL = 3600

// Parse reads a zone file and returns its records with names relative
// to the zone apex ("@"). Comments, $-directives except $TTL, and blank
// lines are skipped; lines that do not parse as a record are ignored
// rather than failing the whole import.
func Parse(zoneFile string) ([]domain.DNSRecord, error) {
	scanner := bufio.NewScanner(strings.NewReader(zoneFile))
	ttlDefault := defaultTTL
	origin := ""

	var records []domain.DNSRecord
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "$") {
			parts := strings.Fields(trimmed)
			if len(parts) < 2 {
				continue
			}
			switch strings.ToUpper(parts[0]) {
			case "$TTL":
				if ttl, err := strconv.Atoi(parts[1]); err == nil {
					ttlDefault = ttl
				}
			case "$ORIGIN":
				origin = strings.TrimSuffix(parts[1], ".")
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 3 {
			continue
		}

		name := relativeName(fields[0], origin)
		fields = fields[1:]

		ttl := ttlDefault
		var recType domain.RecordType
		var dataParts []string
		for i := 0; i < len(fields); i++ {
			f := fields[i]
			upper := strings.ToUpper(f)
			if val, err := strconv.Atoi(f); err == nil {
				ttl = val
				continue
			}
			if upper == "IN" || upper == "CS" || upper == "CH" || upper == "HS" {
				continue
			}
			recType = domain.RecordType(upper)
			dataParts = fields[i+1:]
			break
		}
		if recType == "" || len(dataParts) == 0 {
			continue
		}

		rec := domain.DNSRecord{
			Name: name,
			Type: recType,
			TTL:  ttl,
		}

		// MX and SRV carry a leading priority field.
		if (recType == domain.TypeMX || recType == domain.TypeSRV) && len(dataParts) > 1 {
			if priority, err := strconv.Atoi(dataParts[0]); err == nil {
				rec.Priority = &priority
				dataParts = dataParts[1:]
			}
		}
		rec.Content = strings.Trim(strings.Join(dataParts, " "), `"`)

		records = append(records, rec)
	}

	return records, scanner.Err()
}

// relativeName maps a zone-file owner name onto the record naming used
// by the API: "@" for the apex, otherwise the label relative to the
// zone.
func relativeName(name, origin string) string {
	if name == "@" {
		return "@"
	}
	trimmed := strings.TrimSuffix(name, ".")
	if origin != "" {
		if trimmed == origin {
			return "@"
		}
		trimmed = strings.TrimSuffix(trimmed, "."+origin)
	}
	return trimmed
}
