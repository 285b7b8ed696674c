package logger

import (
	"time"

	"go.uber.org/zap"
)

// Standard field constructors so log keys stay consistent across layers.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// Layer tags the emitting layer (handler, service, store).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Component tags the emitting component (auth.login, social.kakao, ...).
func Component(v string) zap.Field { return zap.String("component", v) }

// Op tags the operation within a component.
func Op(v string) zap.Field { return zap.String("op", v) }

func UserID(v string) zap.Field { return zap.String("user_id", v) }

func Handle(v string) zap.Field { return zap.String("handle", v) }

func Provider(v string) zap.Field { return zap.String("provider", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }

func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
