package dt0

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for dt0 events.
var (
	SignalDefinitionCreated = capitan.NewSignal("dt0.definition.created", "Definition bound to a struct type")
	SignalConstructStart    = capitan.NewSignal("dt0.construct.start", "Construction from raw input beginning")
	SignalConstructComplete = capitan.NewSignal("dt0.construct.complete", "Construction from raw input finished")
	SignalValidateComplete  = capitan.NewSignal("dt0.validate.complete", "Validation of coerced values finished")
	SignalProjectComplete   = capitan.NewSignal("dt0.project.complete", "Projection to plain values finished")
	SignalTransformCreated  = capitan.NewSignal("dt0.transform.created", "Keyed transform built and cached")
)

// Keys for typed event data.
var (
	KeyTypeName       = capitan.NewStringKey("type_name")
	KeyFieldCount     = capitan.NewIntKey("field_count")
	KeyViolationCount = capitan.NewIntKey("violation_count")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
	KeyCipher         = capitan.NewStringKey("cipher")
	KeyTransformCount = capitan.NewIntKey("transform_count")
)

// emitDefinitionCreated emits an event when a definition is built.
func emitDefinitionCreated(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalDefinitionCreated,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

// emitConstructStart emits an event when construction begins.
func emitConstructStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalConstructStart,
		KeyTypeName.Field(typeName),
	)
}

// emitConstructComplete emits an event when construction finishes.
func emitConstructComplete(ctx context.Context, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConstructComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConstructComplete, fields...)
	}
}

// emitValidateComplete emits an event when validation finishes.
func emitValidateComplete(ctx context.Context, typeName string, violations int, duration time.Duration) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyViolationCount.Field(violations),
		KeyDuration.Field(duration),
	}
	if violations > 0 {
		capitan.Error(ctx, SignalValidateComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalValidateComplete, fields...)
	}
}

// emitProjectComplete emits an event when projection finishes.
func emitProjectComplete(ctx context.Context, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalProjectComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalProjectComplete, fields...)
	}
}

// emitTransformCreated emits an event when a keyed transform is cached.
func emitTransformCreated(ctx context.Context, cipher string, count int) {
	capitan.Emit(ctx, SignalTransformCreated,
		KeyCipher.Field(cipher),
		KeyTransformCount.Field(count),
	)
}
