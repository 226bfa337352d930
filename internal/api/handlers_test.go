package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftbook/workcal/internal/api"
	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/internal/service"
	"github.com/shiftbook/workcal/pkg/entity"
	jwtservice "github.com/shiftbook/workcal/pkg/jwt_service"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	email           = "worker@example.com"
	password        = "test-secret"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
	monthID         = uuid.New()
	workdayID       = uuid.New()
	monthDate       = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
)

func testUser() *entity.User {
	return &entity.User{ID: uid, Email: email, PasswordHash: string(passwordHash)}
}

func testMonth() *entity.Month {
	return &entity.Month{
		ID:                  monthID,
		OwnerID:             uid,
		MonthDate:           monthDate,
		TotalHours:          8,
		TotalWorkdays:       1,
		PotentialMonthHours: 160,
	}
}

func testAPIWorkday() *entity.Workday {
	timeIn := monthDate.Add(9 * time.Hour)
	timeOut := monthDate.Add(17 * time.Hour)
	return &entity.Workday{
		ID:         workdayID,
		MonthID:    monthID,
		Date:       monthDate,
		TimeIn:     &timeIn,
		TimeOut:    &timeOut,
		TotalHours: 8,
	}
}

// Mocks follow one switch: Err == nil means the happy path, anything else is
// returned as-is so handler error mapping can be exercised per sentinel.

type UserServiceMock struct {
	Err error
}

func (m *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testUser(), nil
}

func (m *UserServiceMock) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testUser(), nil
}

func (m *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testUser(), nil
}

func (m *UserServiceMock) Update(ctx context.Context, id uuid.UUID, patch *service.UserPatch) (*entity.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testUser(), nil
}

func (m *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	return m.Err
}

type MonthServiceMock struct {
	Err error
}

func (m *MonthServiceMock) Create(ctx context.Context, ownerID uuid.UUID, req *service.CreateMonthRequest) (*entity.Month, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testMonth(), nil
}

func (m *MonthServiceMock) Get(ctx context.Context, id, ownerID uuid.UUID) (*entity.Month, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testMonth(), nil
}

func (m *MonthServiceMock) List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Month, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []*entity.Month{testMonth()}, nil
}

func (m *MonthServiceMock) Update(ctx context.Context, id, ownerID uuid.UUID, patch *service.MonthPatch) (*entity.Month, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testMonth(), nil
}

func (m *MonthServiceMock) Delete(ctx context.Context, id, ownerID uuid.UUID) (*entity.Month, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testMonth(), nil
}

type WorkdayServiceMock struct {
	Err error
}

func (m *WorkdayServiceMock) Create(ctx context.Context, ownerID uuid.UUID, req *service.CreateWorkdayRequest) (*entity.Workday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testAPIWorkday(), nil
}

func (m *WorkdayServiceMock) Get(ctx context.Context, id, ownerID uuid.UUID) (*entity.Workday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testAPIWorkday(), nil
}

func (m *WorkdayServiceMock) ListByMonth(ctx context.Context, monthID, ownerID uuid.UUID) ([]*entity.Workday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []*entity.Workday{testAPIWorkday()}, nil
}

func (m *WorkdayServiceMock) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Workday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []*entity.Workday{testAPIWorkday()}, nil
}

func (m *WorkdayServiceMock) Update(ctx context.Context, id, ownerID uuid.UUID, patch *service.WorkdayPatch) (*entity.Workday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testAPIWorkday(), nil
}

func (m *WorkdayServiceMock) Delete(ctx context.Context, id, ownerID uuid.UUID) (*entity.Workday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return testAPIWorkday(), nil
}

type testEnv struct {
	serv     *api.Server
	users    *UserServiceMock
	months   *MonthServiceMock
	workdays *WorkdayServiceMock
	jwt      *jwtservice.JWTService
}

func newTestEnv() *testEnv {
	users := &UserServiceMock{}
	months := &MonthServiceMock{}
	workdays := &WorkdayServiceMock{}
	jwt := jwtservice.New("test-secret-key")
	return &testEnv{
		serv: api.New(&api.ServicesList{
			UserService:    users,
			MonthService:   months,
			WorkdayService: workdays,
			JwtService:     jwt,
		}),
		users:    users,
		months:   months,
		workdays: workdays,
		jwt:      jwt,
	}
}

func marshalBody(t *testing.T, v any) []byte {
	t.Helper()
	body, err := sonic.ConfigDefault.Marshal(v)
	require.NoError(t, err)
	return body
}

func TestRegister(t *testing.T) {
	env := newTestEnv()
	body := marshalBody(t, api.RegisterRequest{Email: email, Password: password})

	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		env.users.Err = nil
		env.serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("existing email", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		env.users.Err = errorvalues.ErrUserExists
		env.serv.Register(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader([]byte("{broken")))
		env.users.Err = nil
		env.serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	body := marshalBody(t, api.LoginRequest{Email: email, Password: password})

	t.Run("logged in with months attached", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		env.users.Err = nil
		env.serv.Login(rr, req)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp struct {
			UID    string          `json:"uid"`
			Token  string          `json:"token"`
			Months []*entity.Month `json:"months"`
		}
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, uid.String(), resp.UID)
		assert.NotEmpty(t, resp.Token)
		assert.Len(t, resp.Months, 1)
	})
	t.Run("wrong credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		env.users.Err = errorvalues.ErrWrongCredentials
		env.serv.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv()

	t.Run("valid token passes through the router", func(t *testing.T) {
		token, err := env.jwt.GenerateToken(testUser())
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		env.serv.Handler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		env.serv.Handler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		env.serv.Handler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("token of deleted user", func(t *testing.T) {
		token, err := env.jwt.GenerateToken(testUser())
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		env.users.Err = errorvalues.ErrUserNotFound
		defer func() { env.users.Err = nil }()
		env.serv.Handler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func authorizedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), "User-ID", uid)
	return req.WithContext(ctx)
}

func TestCreateMonth(t *testing.T) {
	env := newTestEnv()
	body := marshalBody(t, api.CreateMonthRequest{MonthDate: monthDate})

	t.Run("created", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.months.Err = nil
		env.serv.CreateMonth(rr, authorizedRequest(http.MethodPost, "/api/v1/months", body))
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("duplicate month", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.months.Err = errorvalues.ErrMonthExists
		env.serv.CreateMonth(rr, authorizedRequest(http.MethodPost, "/api/v1/months", body))
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.months.Err = nil
		req := httptest.NewRequest(http.MethodPost, "/api/v1/months", bytes.NewReader(body))
		env.serv.CreateMonth(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestGetMonth(t *testing.T) {
	env := newTestEnv()

	t.Run("month with workdays", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorizedRequest(http.MethodGet, "/api/v1/months/"+monthID.String(), nil)
		req.SetPathValue("id", monthID.String())
		env.serv.GetMonth(rr, req)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetMonthResponse
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, monthID, resp.Month.ID)
		assert.Len(t, resp.Workdays, 1)
	})
	t.Run("foreign month reads as missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorizedRequest(http.MethodGet, "/api/v1/months/"+monthID.String(), nil)
		req.SetPathValue("id", monthID.String())
		env.months.Err = errorvalues.ErrWrongOwner
		defer func() { env.months.Err = nil }()
		env.serv.GetMonth(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorizedRequest(http.MethodGet, "/api/v1/months/not-a-uuid", nil)
		req.SetPathValue("id", "not-a-uuid")
		env.serv.GetMonth(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestCreateWorkdayHandler(t *testing.T) {
	env := newTestEnv()
	timeIn := monthDate.Add(9 * time.Hour)
	timeOut := monthDate.Add(17 * time.Hour)
	body := marshalBody(t, api.CreateWorkdayRequest{
		MonthID: monthID,
		Date:    monthDate,
		TimeIn:  &timeIn,
		TimeOut: &timeOut,
	})

	t.Run("created with refreshed month", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.serv.CreateWorkday(rr, authorizedRequest(http.MethodPost, "/api/v1/workdays", body))
		require.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		var resp api.WorkdayResponse
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, workdayID, resp.Workday.ID)
		assert.Equal(t, monthID, resp.Month.ID)
		assert.Equal(t, 8.0, resp.Month.TotalHours)
	})
	t.Run("duplicate date", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.workdays.Err = errorvalues.ErrWorkdayExists
		defer func() { env.workdays.Err = nil }()
		env.serv.CreateWorkday(rr, authorizedRequest(http.MethodPost, "/api/v1/workdays", body))
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("missing times", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.workdays.Err = errorvalues.ErrMissingTimes
		defer func() { env.workdays.Err = nil }()
		env.serv.CreateWorkday(rr, authorizedRequest(http.MethodPost, "/api/v1/workdays", body))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("consistency violation surfaces as internal error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.workdays.Err = &errorvalues.ConsistencyError{
			Entity:  "workday",
			MonthID: monthID,
			Op:      "create",
			Delta:   entity.AggregateDelta{Hours: 8, Workdays: 1},
		}
		defer func() { env.workdays.Err = nil }()
		env.serv.CreateWorkday(rr, authorizedRequest(http.MethodPost, "/api/v1/workdays", body))
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestGetWorkdaysHandler(t *testing.T) {
	env := newTestEnv()

	t.Run("workdays across months", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.serv.GetWorkdays(rr, authorizedRequest(http.MethodGet, "/api/v1/workdays", nil))
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp struct {
			UID      string            `json:"uid"`
			Workdays []*entity.Workday `json:"workdays"`
		}
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, uid.String(), resp.UID)
		assert.Len(t, resp.Workdays, 1)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.serv.GetWorkdays(rr, httptest.NewRequest(http.MethodGet, "/api/v1/workdays", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestDeleteWorkdayHandler(t *testing.T) {
	env := newTestEnv()

	t.Run("deleted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorizedRequest(http.MethodDelete, "/api/v1/workdays/"+workdayID.String(), nil)
		req.SetPathValue("id", workdayID.String())
		env.serv.DeleteWorkday(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("unexist workday", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorizedRequest(http.MethodDelete, "/api/v1/workdays/"+workdayID.String(), nil)
		req.SetPathValue("id", workdayID.String())
		env.workdays.Err = errorvalues.ErrWorkdayNotFound
		defer func() { env.workdays.Err = nil }()
		env.serv.DeleteWorkday(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
