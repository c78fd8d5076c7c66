package session_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/chatauth/pkg/authsdk"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for session end-to-end tests.
 * The service runs with the in-process user pool and a fixed code, so the
 * whole register, confirm and login flow works without AWS.
 */

const (
	testImageName = "chatauth-test:latest"

	cookiePrefix = "chat"
	staticCode   = "424242"
	userPassword = "Chat123!"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Chat Auth Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Chat Auth Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

func baseEnv() map[string]string {
	return map[string]string{
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
		"AUTH_DATABASE_FILE":    "/data/auth.db",
		"COOKIE_PREFIX":         cookiePrefix,
		"IDP_MODE":              "local",
		"LOCAL_IDP_STATIC_CODE": staticCode,
		"SYNCHRONIZE_SECRET":    "e2e-synchronize-secret",
	}
}

// setupAuthContainer starts the service with relaxed rate limits and returns
// its base URL.
func setupAuthContainer(t *testing.T) string {
	t.Helper()

	env := baseEnv()
	for _, tier := range []string{"STRICT", "MODERATE", "LENIENT"} {
		env["RATELIMIT_"+tier+"_REQUESTS"] = "1000"
		env["RATELIMIT_"+tier+"_BURST"] = "1000"
	}
	return startContainer(t, env)
}

// setupAuthContainerWithDefaultRateLimits is for tests that check the limits
// themselves.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// uniqueEmail keeps tests sharing a container from colliding.
func uniqueEmail() string {
	return "user-" + ulid.Make().String() + "@example.com"
}

// registerConfirmed creates and confirms a user and returns its email.
func registerConfirmed(t *testing.T, client *authsdk.SDKClient) string {
	t.Helper()
	ctx := t.Context()

	email := uniqueEmail()
	user, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:           email,
		Password:        userPassword,
		ConfirmPassword: userPassword,
		GivenName:       "Chat",
		FamilyName:      "User",
	})
	require.NoError(t, err, "Register should succeed")
	require.NotEmpty(t, user.ID)
	require.Equal(t, email, user.Email)

	require.NoError(t, client.ConfirmRegistration(ctx, email, staticCode), "Confirm should succeed")
	return email
}

// performLogin logs in and checks all three cookies landed in the jar.
func performLogin(t *testing.T, client *authsdk.SDKClient, email, password string) *authsdk.LoginResponse {
	t.Helper()

	resp, err := client.Login(t.Context(), email, password)
	require.NoError(t, err, "Login should succeed")
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)
	require.Positive(t, resp.Tokens.ExpiresIn)

	for _, suffix := range []string{authsdk.AccessTokenCookie, authsdk.RefreshTokenCookie, authsdk.SynchronizeCookie} {
		_, ok := client.Cookie(suffix)
		require.True(t, ok, "cookie %s should be set", client.CookieName(suffix))
	}
	return resp
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
