package crm_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	crmhttp "github.com/unidesk/crmbot/internal/crm/http"
	"github.com/unidesk/crmbot/internal/crm/service"
	"github.com/unidesk/crmbot/internal/crm/session"
	"github.com/unidesk/crmbot/internal/crm/store/drivers/sqlite"
	"github.com/unidesk/crmbot/pkg/cryptox"
	"github.com/unidesk/crmbot/pkg/crmsdk"
	"github.com/unidesk/crmbot/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests for the CRM service: the full stack (store, codec,
 * registry, services, router) served over a real HTTP listener and exercised
 * through the SDK.
 */

const (
	adminUsername    = "admin"
	adminPassword    = "Admin123!"
	operatorUsername = "operator"
	operatorPassword = "Operator123!"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "crm-e2e")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// startService boots the whole service in-process and returns an SDK client
// pointed at it. The admin and operator accounts are pre-seeded.
func startService(t *testing.T) *crmsdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(jwtx.Config{
		AccessSecret:  []byte("e2e-access-secret-0123456789abcdefgh"),
		RefreshSecret: []byte("e2e-refresh-secret-0123456789abcdefg"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	registry := session.NewMemoryRegistry()

	router := crmhttp.NewRouter(codec, "e2e", st, slog.New(slog.DiscardHandler))
	router.AuthService = &service.AuthService{Store: st, Codec: codec, Registry: registry}
	router.UserService = &service.UserService{Store: st, Registry: registry}
	router.StatementService = &service.StatementService{Store: st}
	router.FileService = &service.FileService{Store: st}
	router.ApplyRoutes()

	ctx := context.Background()
	_, err = router.UserService.Register(ctx, adminUsername, adminPassword, []string{"ADMIN"})
	require.NoError(t, err)
	_, err = router.UserService.Register(ctx, operatorUsername, operatorPassword, nil)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return crmsdk.NewClient(server.URL)
}

func loginAdmin(t *testing.T, client *crmsdk.Client) *crmsdk.Session {
	t.Helper()
	sess, err := client.Login(context.Background(), adminUsername, adminPassword)
	require.NoError(t, err)
	return sess
}

func loginOperator(t *testing.T, client *crmsdk.Client) *crmsdk.Session {
	t.Helper()
	sess, err := client.Login(context.Background(), operatorUsername, operatorPassword)
	require.NoError(t, err)
	return sess
}
