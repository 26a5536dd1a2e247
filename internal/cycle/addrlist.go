package cycle

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"

	"github.com/sirupsen/logrus"
)

var ErrNoRecipients = errors.New("no valid recipient addresses")

// LoadAddressList reads one address per line. Blank lines are ignored and
// malformed addresses are dropped with a warning.
func LoadAddressList(path string, logger logrus.FieldLogger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open address list: %w", err)
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		addr := strings.TrimSpace(scanner.Text())
		if addr == "" {
			continue
		}
		if !crypto.IsValidAddress(addr) {
			logger.WithFields(logrus.Fields{"line": line, "address": addr}).Warn("skipping invalid address")
			continue
		}
		addresses = append(addresses, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read address list: %w", err)
	}
	if len(addresses) == 0 {
		return nil, ErrNoRecipients
	}
	return addresses, nil
}

// PickRecipient picks an address uniformly, never returning self.
func PickRecipient(addresses []string, r common.Random, self string) (string, error) {
	candidates := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if addr != self {
			candidates = append(candidates, addr)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoRecipients
	}
	return candidates[r.Int63n(int64(len(candidates)))], nil
}
