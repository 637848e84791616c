package ctxutil

import (
	"context"
	"testing"
)

func TestRequestAndTraceData(t *testing.T) {
	ctx := context.Background()
	if UserID(ctx) != "" || TraceID(ctx) != "" || GetTraceData(ctx) != nil {
		t.Fatalf("empty context should carry nothing")
	}
	ctx = WithRequestData(ctx, &RequestData{UserID: "u1"})
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t", RequestID: "r"})
	if UserID(ctx) != "u1" {
		t.Fatalf("user id = %q", UserID(ctx))
	}
	if TraceID(ctx) != "t" {
		t.Fatalf("trace id = %q", TraceID(ctx))
	}
	if td := GetTraceData(ctx); td == nil || td.TraceID != "t" || td.RequestID != "r" {
		t.Fatalf("trace data = %+v", td)
	}
}
