package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clcollins/nowdesk/pkg/launcher"
	"github.com/clcollins/nowdesk/pkg/snow"
)

func testViper(settings map[string]any) *viper.Viper {
	v := viper.New()
	for k, val := range settings {
		v.Set(k, val)
	}
	return v
}

func TestCredentialsFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		expected snow.Credentials
		errMsg   string
	}{
		{
			name:     "token mode sends the user token",
			settings: map[string]any{"auth_mode": "token", "token": "abc123"},
			expected: snow.SessionToken{Token: "abc123"},
		},
		{
			name:     "basic mode uses the service account",
			settings: map[string]any{"auth_mode": "basic", "username": "svc", "password": "hunter2"},
			expected: snow.BasicAuth{Username: "svc", Password: "hunter2"},
		},
		{
			name:     "session mode without a cookie",
			settings: map[string]any{"auth_mode": "session"},
			expected: snow.Session{},
		},
		{
			name:     "token mode without a token",
			settings: map[string]any{"auth_mode": "token"},
			errMsg:   "requires 'token'",
		},
		{
			name:     "basic mode without a password",
			settings: map[string]any{"auth_mode": "basic", "username": "svc"},
			errMsg:   "requires 'username' and 'password'",
		},
		{
			name:     "unknown mode",
			settings: map[string]any{"auth_mode": "oauth"},
			errMsg:   `unknown auth_mode "oauth"`,
		},
		{
			name:     "missing mode",
			settings: map[string]any{},
			errMsg:   "missing required key: auth_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := credentialsFromConfig(testViper(tt.settings))
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				assert.Nil(t, creds)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, creds)
		})
	}

	t.Run("session mode parses the cookie header", func(t *testing.T) {
		creds, err := credentialsFromConfig(testViper(map[string]any{
			"auth_mode":      "session",
			"session_cookie": "JSESSIONID=abc; glide_user_route=xyz",
		}))
		require.NoError(t, err)
		session, ok := creds.(snow.Session)
		require.True(t, ok)
		require.Len(t, session.Cookies, 2)
		assert.Equal(t, "JSESSIONID", session.Cookies[0].Name)
		assert.Equal(t, "xyz", session.Cookies[1].Value)
	})
}

func TestConsoleConfig(t *testing.T) {
	browser, err := launcher.NewBrowserLauncher("")
	require.NoError(t, err)

	t.Run("token mode skips the authentication probe", func(t *testing.T) {
		client, err := newClient(testViper(map[string]any{
			"instance_url": "https://example.service-now.com/",
			"auth_mode":    "token",
			"token":        "abc123",
		}), prometheus.NewRegistry())
		require.NoError(t, err)

		cfg := consoleConfig(client, browser, "jdoe")
		assert.Nil(t, cfg.Probe)
		assert.Equal(t, "https://example.service-now.com", cfg.InstanceURL)
		assert.Equal(t, "jdoe", cfg.Actor)
		assert.NotNil(t, cfg.Incidents)
		assert.NotNil(t, cfg.Users)
		assert.NotNil(t, cfg.Notifications)
		assert.NotNil(t, cfg.Subscriptions)
	})

	t.Run("session mode gates the console behind the probe", func(t *testing.T) {
		client, err := newClient(testViper(map[string]any{
			"instance_url": "https://example.service-now.com",
			"auth_mode":    "session",
		}), nil)
		require.NoError(t, err)

		cfg := consoleConfig(client, browser, "")
		assert.NotNil(t, cfg.Probe)
	})

	t.Run("an invalid instance url fails", func(t *testing.T) {
		_, err := newClient(testViper(map[string]any{
			"instance_url": "ftp://example.service-now.com",
			"auth_mode":    "token",
			"token":        "abc123",
		}), nil)
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"instance_url": "https://example.service-now.com",
			"auth_mode":    "token",
			"token":        "abc123",
		}
	}

	tests := []struct {
		name     string
		settings func() map[string]any
		errMsgs  []string
	}{
		{
			name:     "valid token config",
			settings: valid,
		},
		{
			name: "deprecated keys are ignored",
			settings: func() map[string]any {
				s := valid()
				s["g_ck"] = "old-token"
				s["page_size"] = 10
				return s
			},
		},
		{
			name:     "missing required keys",
			settings: func() map[string]any { return map[string]any{} },
			errMsgs:  []string{"missing required key: auth_mode", "missing required key: instance_url"},
		},
		{
			name: "basic mode without a password",
			settings: func() map[string]any {
				return map[string]any{
					"instance_url": "https://example.service-now.com",
					"auth_mode":    "basic",
					"username":     "svc",
				}
			},
			errMsgs: []string{"auth_mode basic requires key: password"},
		},
		{
			name: "session mode without a cookie is allowed",
			settings: func() map[string]any {
				return map[string]any{
					"instance_url": "https://example.service-now.com",
					"auth_mode":    "session",
				}
			},
		},
		{
			name: "unknown auth mode",
			settings: func() map[string]any {
				s := valid()
				s["auth_mode"] = "oauth"
				return s
			},
			errMsgs: []string{`invalid auth_mode: "oauth"`},
		},
		{
			name: "instance url must be http or https",
			settings: func() map[string]any {
				s := valid()
				s["instance_url"] = "ftp://example.service-now.com"
				return s
			},
			errMsgs: []string{"must be http or https"},
		},
		{
			name: "browser command without the url placeholder",
			settings: func() map[string]any {
				s := valid()
				s["browser"] = "firefox"
				return s
			},
			errMsgs: []string{"browser command must contain " + launcher.URLVar},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(testViper(tt.settings()))
			if len(tt.errMsgs) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, msg := range tt.errMsgs {
				assert.ErrorContains(t, err, msg)
			}
		})
	}

	t.Run("missing optional keys get defaults", func(t *testing.T) {
		v := testViper(valid())
		require.NoError(t, validateConfig(v))
		assert.Equal(t, "System", v.GetString("actor"))
		assert.Equal(t, launcher.DefaultCommand, v.GetString("browser"))
		assert.Equal(t, "30s", v.GetString("request_timeout"))
	})
}

func TestSecretKey(t *testing.T) {
	for _, k := range []string{"token", "password", "session_cookie"} {
		assert.True(t, secretKey(k), k)
	}
	for _, k := range []string{"instance_url", "username", "actor"} {
		assert.False(t, secretKey(k), k)
	}
}

func TestConfigCreate(t *testing.T) {
	var out bytes.Buffer
	configCmd.SetOut(&out)
	require.NoError(t, configCmd.Flags().Set("create", "true"))
	t.Cleanup(func() {
		configCmd.SetOut(nil)
		_ = configCmd.Flags().Set("create", "false")
	})

	require.NoError(t, configCmd.RunE(configCmd, nil))

	assert.Equal(t, exampleConfig+"\n", out.String())
	assert.Contains(t, out.String(), "instance_url:")
	assert.Contains(t, out.String(), launcher.URLVar)
	assert.NotContains(t, out.String(), "%!")
}

func TestSourcesHaveNoBlankLineRuns(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	files = append(files, filepath.Join("..", "main.go"))

	for _, f := range files {
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.False(t, bytes.Contains(src, []byte("\n\n\n")), "%s has consecutive blank lines", f)
	}
}
