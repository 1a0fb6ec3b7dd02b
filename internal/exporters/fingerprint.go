package exporters

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/desertthunder/notioncal/internal/models"
)

// fingerprintVersion is baked into the digest so a change to the canonical
// layout invalidates existing caches instead of silently colliding.
const fingerprintVersion = "v1"

// absentField stands in for optional fields that are not set, keeping the
// canonical form fixed-width in field count.
const absentField = "-"

// Fingerprint derives a deterministic content signature from the fields that
// affect a task's rendered target representation: the prefixed title, the
// due-date range, and the status.
//
// Pure function of its inputs. Two tasks with identical relevant fields
// always produce equal fingerprints.
func Fingerprint(task models.Task, opts Options) string {
	fields := []string{
		fingerprintVersion,
		opts.TitlePrefix + task.Title,
		orAbsent(task.DueStart),
		orAbsent(task.DueEnd),
		orAbsent(task.Status),
	}

	sum := sha256.Sum256([]byte(strings.Join(fields, "\n")))
	return hex.EncodeToString(sum[:])
}

func orAbsent(s string) string {
	if s == "" {
		return absentField
	}
	return s
}
