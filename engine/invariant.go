package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// StrictInvariants turns invariant violations into panics; tests enable it in TestMain
var StrictInvariants = false

// Violation reports an unreachable state
// Strict mode panics; otherwise the violation is logged and the caller drops the offending entity
func Violation(fields log.Fields, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if StrictInvariants {
		panic(fmt.Sprintf("invariant violation: %s %v", msg, fields))
	}
	log.WithFields(fields).Error("invariant violation: " + msg)
}
