package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/tafakari/apps/api/echo"
	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/dashboard"
	"github.com/trezcool/tafakari/core/guidance"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/triage"
	"github.com/trezcool/tafakari/core/user"
	emailsvc "github.com/trezcool/tafakari/services/email"
	"github.com/trezcool/tafakari/storage/database"
	inmemdb "github.com/trezcool/tafakari/storage/database/inmem"
	"github.com/trezcool/tafakari/tests"
)

type testApp struct {
	server   Server
	usrRepo  user.Repository
	reflRepo reflection.Repository
	ctrl     *triage.Controller
	mailSvc  *emailsvc.ConsoleService
}

// newTestApp serves a fresh, seeded in-memory store at testutil.Now.
// gen replaces the template guidance generator when given.
func newTestApp(t *testing.T, gen ...guidance.Generator) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	logger := testutil.NewLogger(nil)
	clock := core.FixedClock(testutil.Now)

	db, err := inmemdb.Open()
	require.NoError(t, err)
	usrRepo := inmemdb.NewUserRepository(db)
	reflRepo := inmemdb.NewReflectionRepository(db)
	require.NoError(t, database.Seed(context.Background(), usrRepo, reflRepo, clock))

	store := database.NewRecordStore(usrRepo, reflRepo)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	var generator guidance.Generator = guidance.NewTemplateGenerator(0)
	if len(gen) > 0 {
		generator = gen[0]
	}
	ctrl := triage.NewController(store, generator, mailSvc, logger)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	reflection.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       user.NewService(usrRepo, clock),
		ReflectionSvc: reflection.NewService(reflRepo, usrRepo, clock),
		Board:         dashboard.NewBoard(store, clock, conf.NegativeWindow),
		Triage:        ctrl,
		Validate:      validate,
		Translator:    translator,
	})

	return &testApp{server: server, usrRepo: usrRepo, reflRepo: reflRepo, ctrl: ctrl, mailSvc: mailSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	wantCode int
	wantData interface{}
}

func newRequest(t *testing.T, method, path string, data interface{}) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if data != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(data))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func (app *testApp) do(t *testing.T, method, path string, data interface{}) *httptest.ResponseRecorder {
	req, rec := newRequest(t, method, path, data)
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			rec := app.do(t, method, tc.path, tc.body)

			wantCode := tc.wantCode
			if wantCode == 0 {
				wantCode = http.StatusOK
			}
			require.Equal(t, wantCode, rec.Code, rec.Body.String())
			if tc.wantData != nil {
				require.JSONEq(t, marshalObj(t, tc.wantData), rec.Body.String())
			}
		})
	}
}

func marshalObj(t *testing.T, obj interface{}) string {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return string(data)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}
