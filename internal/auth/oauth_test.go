package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPKCEParams(t *testing.T) {
	verifier, challenge, state, err := pkceParams()
	require.NoError(t, err)
	require.NotEmpty(t, verifier)
	require.NotEmpty(t, challenge)
	require.NotEmpty(t, state)
	require.NotEqual(t, verifier, challenge)

	// Two flows never share parameters.
	v2, c2, s2, err := pkceParams()
	require.NoError(t, err)
	require.NotEqual(t, verifier, v2)
	require.NotEqual(t, challenge, c2)
	require.NotEqual(t, state, s2)
}

func TestWaitForCallback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := waitForCallback(ctx, "expected-state")
		done <- result{code, err}
	}()

	// Wait for the listener to come up.
	var resp *http.Response
	var err error
	target := fmt.Sprintf("%s?code=%s&state=%s", callbackURL,
		url.QueryEscape("auth-code-123"), url.QueryEscape("expected-state"))
	for i := 0; i < 50; i++ {
		resp, err = http.Get(target)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := <-done
	require.NoError(t, r.err)
	require.Equal(t, "auth-code-123", r.code)
}

func TestWaitForCallbackRejectsBadState(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := waitForCallback(ctx, "expected-state")
		done <- err
	}()

	target := callbackURL + "?code=abc&state=wrong"
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(target)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Error(t, <-done)
}
