// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import "strings"

// labelFromHost derives a candidate label from a scraped hostname, per the
// parsing contract common to all three scrapers in spec §4.3: strip a
// leading wildcard, keep only names ending with "."+apex, and return the
// label with that suffix stripped. The second return value is false when
// host is not a strict subdomain of apex (including when host equals
// apex, which the Label Store rejects anyway).
func labelFromHost(host, apex string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "*.")
	apex = strings.ToLower(apex)
	suffix := "." + apex
	if !strings.HasSuffix(host, suffix) {
		return "", false
	}
	label := strings.TrimSuffix(host, suffix)
	if label == "" {
		return "", false
	}
	return label, true
}
