// SPDX-License-Identifier: GPL-3.0-or-later

package orchestrator

// Version and Attribution are the build-time constants rendered in the
// startup banner (spec §6). Neither is a CLI flag: the tool accepts no
// flags beyond the positional apex argument.
const (
	Version     = "0.1.0"
	Attribution = "the dnsmap maintainers"
)
