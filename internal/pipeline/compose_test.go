// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose2(t *testing.T) {
	t.Run("success path", func(t *testing.T) {
		op1 := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
			return "hello", nil
		})
		op2 := FuncAdapter[string, int](func(ctx context.Context, s string) (int, error) {
			return len(s), nil
		})

		composed := Compose2[int, string, int](op1, op2)
		result, err := composed.Call(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, 5, result)
	})

	t.Run("first operation fails", func(t *testing.T) {
		wantErr := errors.New("op1 failed")
		op1 := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
			return "", wantErr
		})
		op2 := FuncAdapter[string, int](func(ctx context.Context, s string) (int, error) {
			t.Fatal("op2 should not be called")
			return 0, nil
		})

		composed := Compose2[int, string, int](op1, op2)
		_, err := composed.Call(context.Background(), 42)

		require.ErrorIs(t, err, wantErr)
	})

	t.Run("second operation fails", func(t *testing.T) {
		wantErr := errors.New("op2 failed")
		op1 := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
			return "hello", nil
		})
		op2 := FuncAdapter[string, int](func(ctx context.Context, s string) (int, error) {
			return 0, wantErr
		})

		composed := Compose2[int, string, int](op1, op2)
		_, err := composed.Call(context.Background(), 42)

		require.ErrorIs(t, err, wantErr)
	})
}

func TestCompose3(t *testing.T) {
	op1 := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
		return "abc", nil
	})
	op2 := FuncAdapter[string, int](func(ctx context.Context, s string) (int, error) {
		return len(s), nil
	})
	op3 := FuncAdapter[int, bool](func(ctx context.Context, n int) (bool, error) {
		return n > 0, nil
	})

	composed := Compose3[int, string, int, bool](op1, op2, op3)
	result, err := composed.Call(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestApply(t *testing.T) {
	fn := FuncAdapter[int, string](func(ctx context.Context, n int) (string, error) {
		return "fixed", nil
	})
	applied := Apply(fn, 7)
	result, err := applied.Call(context.Background(), Unit{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", result)
}
