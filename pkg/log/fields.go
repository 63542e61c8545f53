package log

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Field is a zap.Field.
type Field = zap.Field

func String(key string, val string) Field { return zap.String(key, val) }

func Strings(key string, ss []string) Field { return zap.Strings(key, ss) }

func Bool(key string, val bool) Field { return zap.Bool(key, val) }

func Int(key string, val int) Field { return zap.Int(key, val) }

func Int64(key string, val int64) Field { return zap.Int64(key, val) }

// Stringer calls val.String lazily, only when the entry is written.
func Stringer(key string, val fmt.Stringer) Field { return zap.Stringer(key, val) }

func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

// Any picks the best encoding for value, falling back to reflection.
func Any(key string, value any) Field { return zap.Any(key, value) }

// Err stores err under "error". A nil err yields a no-op field.
func Err(err error) Field { return zap.Error(err) }
