package handler

import (
	"errors"
	"math"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestRequestFieldsID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   *structpb.Value
		want    int64
		wantErr bool
	}{
		{name: "number", value: structpb.NewNumberValue(42), want: 42},
		{name: "decimal string", value: structpb.NewStringValue(" 9223372036854775807 "), want: math.MaxInt64},
		{name: "smallest int64", value: structpb.NewNumberValue(math.MinInt64), want: math.MinInt64},
		{name: "two to the 63", value: structpb.NewNumberValue(9.223372036854775808e18), wantErr: true},
		{name: "fraction", value: structpb.NewNumberValue(1.5), wantErr: true},
		{name: "string overflow", value: structpb.NewStringValue("9223372036854775808"), wantErr: true},
		{name: "bool", value: structpb.NewBoolValue(true), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := requestFields{"id": tt.value}.id("id")
			if tt.wantErr {
				if !errors.Is(err, errInvalidRequest) {
					t.Fatalf("expected errInvalidRequest, got %d, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
