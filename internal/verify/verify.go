// Package verify simulates email deliverability checks. No mail server is
// contacted: the verdict is derived from a hash of the address.
package verify

import (
	"context"
	"crypto/md5"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sitescout/sitescout-api/internal/metrics"
)

type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

var five = big.NewInt(5)

type Verifier struct {
	delay  time.Duration
	sleep  func(time.Duration)
	logger *zap.Logger
}

func NewVerifier(logger *zap.Logger, delay time.Duration) *Verifier {
	return &Verifier{
		delay:  delay,
		sleep:  time.Sleep,
		logger: logger,
	}
}

// Verify marks roughly one address in five as invalid, always the same ones.
func (v *Verifier) Verify(_ context.Context, email string) Status {
	if v.delay > 0 {
		v.sleep(v.delay)
	}

	status := Classify(email)
	metrics.EmailVerifications.WithLabelValues(string(status)).Inc()
	v.logger.Debug("email verified", zap.String("email", Normalize(email)), zap.String("status", string(status)))
	return status
}

// Classify is the deterministic verdict for an address, without latency.
func Classify(email string) Status {
	sum := md5.Sum([]byte(Normalize(email)))
	n := new(big.Int).SetBytes(sum[:])
	if new(big.Int).Mod(n, five).Sign() == 0 {
		return StatusInvalid
	}
	return StatusValid
}

func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
