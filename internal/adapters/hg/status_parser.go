package hg

import (
	"fmt"
	"strings"

	"merc/internal/domain"
)

// ParseStatus parses `hg status` output ("M path" per line)
func ParseStatus(text string) ([]domain.FileStatus, error) {
	var out []domain.FileStatus
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if len(line) < 3 || line[1] != ' ' {
			return nil, fmt.Errorf("unexpected status line: %q", line)
		}
		code := domain.FileStatusCode(line[0])
		switch code {
		case domain.StatusAdded, domain.StatusMissing, domain.StatusModified, domain.StatusRemoved:
		default:
			continue
		}
		out = append(out, domain.FileStatus{Code: code, Path: line[2:]})
	}
	return out, nil
}
