package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/calendar"
	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	"github.com/mamadbah2/barbershop/internal/service/leaderboard"
	"github.com/mamadbah2/barbershop/internal/service/production"
)

var errInvalidRequest = errors.New("invalid request")

// Store is the CRUD surface behind the management API.
type Store interface {
	ListUnits(ctx context.Context) ([]models.Unit, error)
	GetUnit(ctx context.Context, id string) (*models.Unit, error)
	SaveUnit(ctx context.Context, unit models.Unit) error
	DeleteUnit(ctx context.Context, id string) error

	ListBarbers(ctx context.Context, unitID string, activeOnly bool) ([]models.Barber, error)
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	SaveBarber(ctx context.Context, barber models.Barber) error
	DeleteBarber(ctx context.Context, id string) error

	GetGoal(ctx context.Context, barberID string, year, month int) (*models.MonthlyGoal, error)
	ListGoals(ctx context.Context, barberID string, year int) ([]models.MonthlyGoal, error)
	UpsertGoal(ctx context.Context, goal models.MonthlyGoal) (models.MonthlyGoal, error)
	DeleteGoal(ctx context.Context, barberID string, year, month int) error

	ListProductions(ctx context.Context, barberID string, from, to time.Time) ([]models.DailyProduction, error)
}

// Recorder writes production rows.
type Recorder interface {
	Record(ctx context.Context, in models.ProductionInput) (models.DailyProduction, error)
	Delete(ctx context.Context, barberID string, date time.Time) error
}

// Reporter serves the read-side views.
type Reporter interface {
	Dashboard(ctx context.Context, barberID string, year int, month time.Month) (*models.BarberDashboard, error)
	Leaderboard(ctx context.Context, period, unitID string) (models.Leaderboard, error)
	LeaderboardBetween(ctx context.Context, from, to time.Time, unitID string) (models.Leaderboard, error)
	Overview(ctx context.Context, year int, month time.Month) (*models.ManagerOverview, error)
	Evolution(ctx context.Context, barberID string, year int) ([]models.EvolutionPoint, error)
	Today() time.Time
}

// APIHandler serves the dashboard REST API.
type APIHandler struct {
	store    Store
	recorder Recorder
	reporter Reporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewAPIHandler constructs the REST handler.
func NewAPIHandler(store Store, recorder Recorder, reporter Reporter, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{store: store, recorder: recorder, reporter: reporter, logger: logger, now: time.Now}
}

func (h *APIHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, errInvalidRequest), errors.Is(err, production.ErrInvalidProduction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// ListUnits handles GET /units.
func (h *APIHandler) ListUnits(c *gin.Context) {
	units, err := h.store.ListUnits(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetUnit handles GET /units/:id.
func (h *APIHandler) GetUnit(c *gin.Context) {
	unit, err := h.store.GetUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// CreateUnit handles POST /units.
func (h *APIHandler) CreateUnit(c *gin.Context) {
	var req models.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}

	unit := models.Unit{ID: uuid.NewString(), Name: req.Name, Active: true, CreatedAt: h.now().UTC()}
	if req.Active != nil {
		unit.Active = *req.Active
	}
	if err := h.store.SaveUnit(c.Request.Context(), unit); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// UpdateUnit handles PUT /units/:id.
func (h *APIHandler) UpdateUnit(c *gin.Context) {
	var req models.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}

	ctx := c.Request.Context()
	unit, err := h.store.GetUnit(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	unit.Name = req.Name
	if req.Active != nil {
		unit.Active = *req.Active
	}
	if err := h.store.SaveUnit(ctx, *unit); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// DeleteUnit handles DELETE /units/:id.
func (h *APIHandler) DeleteUnit(c *gin.Context) {
	if err := h.store.DeleteUnit(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBarbers handles GET /barbers?unit_id=&active=true.
func (h *APIHandler) ListBarbers(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	barbers, err := h.store.ListBarbers(c.Request.Context(), c.Query("unit_id"), activeOnly)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, barbers)
}

// GetBarber handles GET /barbers/:id.
func (h *APIHandler) GetBarber(c *gin.Context) {
	barber, err := h.store.GetBarber(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, barber)
}

func (h *APIHandler) applyBarberRequest(ctx context.Context, barber *models.Barber, req models.BarberRequest) error {
	if !models.ValidPercent(req.ServicesCommission) || !models.ValidPercent(req.ProductsCommission) {
		return invalid("commission percentages must be between 0 and 100")
	}
	if _, err := h.store.GetUnit(ctx, req.UnitID); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return invalid("unit %s does not exist", req.UnitID)
		}
		return err
	}

	barber.Name = req.Name
	barber.Phone = models.NormalizePhone(req.Phone)
	barber.UnitID = req.UnitID
	barber.ServicesCommission = req.ServicesCommission
	barber.ProductsCommission = req.ProductsCommission
	if req.Active != nil {
		barber.Active = *req.Active
	}
	return nil
}

// CreateBarber handles POST /barbers.
func (h *APIHandler) CreateBarber(c *gin.Context) {
	var req models.BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}

	ctx := c.Request.Context()
	barber := models.Barber{ID: uuid.NewString(), Active: true, CreatedAt: h.now().UTC()}
	if err := h.applyBarberRequest(ctx, &barber, req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SaveBarber(ctx, barber); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, barber)
}

// UpdateBarber handles PUT /barbers/:id. Rate changes apply to rows recorded
// afterwards; stored commissions are left as they are.
func (h *APIHandler) UpdateBarber(c *gin.Context) {
	var req models.BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}

	ctx := c.Request.Context()
	barber, err := h.store.GetBarber(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.applyBarberRequest(ctx, barber, req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SaveBarber(ctx, *barber); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, barber)
}

// DeleteBarber handles DELETE /barbers/:id.
func (h *APIHandler) DeleteBarber(c *gin.Context) {
	if err := h.store.DeleteBarber(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseYearMonth(yearRaw, monthRaw string) (int, time.Month, error) {
	year, err := strconv.Atoi(yearRaw)
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, invalid("year %q is not valid", yearRaw)
	}
	month, err := strconv.Atoi(monthRaw)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, invalid("month %q is not valid", monthRaw)
	}
	return year, time.Month(month), nil
}

// optionalYearMonth reads ?year=&month=, defaulting to the current month.
func (h *APIHandler) optionalYearMonth(c *gin.Context) (int, time.Month, error) {
	today := h.reporter.Today()
	year := c.DefaultQuery("year", strconv.Itoa(today.Year()))
	month := c.DefaultQuery("month", strconv.Itoa(int(today.Month())))
	return parseYearMonth(year, month)
}

// GetGoal handles GET /barbers/:id/goals/:year/:month.
func (h *APIHandler) GetGoal(c *gin.Context) {
	year, month, err := parseYearMonth(c.Param("year"), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	goal, err := h.store.GetGoal(c.Request.Context(), c.Param("id"), year, int(month))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// ListGoals handles GET /barbers/:id/goals?year=.
func (h *APIHandler) ListGoals(c *gin.Context) {
	year, _, err := h.optionalYearMonth(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	goals, err := h.store.ListGoals(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// PutGoal handles PUT /barbers/:id/goals/:year/:month.
func (h *APIHandler) PutGoal(c *gin.Context) {
	year, month, err := parseYearMonth(c.Param("year"), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var req models.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}
	if !req.TargetCommission.IsPositive() {
		h.fail(c, invalid("target_commission must be positive"))
		return
	}
	if req.WorkDays < 1 || req.WorkDays > calendar.DaysInMonth(year, month) {
		h.fail(c, invalid("work_days must be between 1 and the days in the month"))
		return
	}

	ctx := c.Request.Context()
	barberID := c.Param("id")
	if _, err := h.store.GetBarber(ctx, barberID); err != nil {
		h.fail(c, err)
		return
	}

	goal, err := h.store.UpsertGoal(ctx, models.MonthlyGoal{
		ID:               uuid.NewString(),
		BarberID:         barberID,
		Year:             year,
		Month:            int(month),
		TargetCommission: req.TargetCommission,
		WorkDays:         req.WorkDays,
		UpdatedAt:        h.now().UTC(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// DeleteGoal handles DELETE /barbers/:id/goals/:year/:month.
func (h *APIHandler) DeleteGoal(c *gin.Context) {
	year, month, err := parseYearMonth(c.Param("year"), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteGoal(c.Request.Context(), c.Param("id"), year, int(month)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, invalid("date %q must be YYYY-MM-DD", raw)
	}
	return d, nil
}

// dateRange overrides the default bounds with the from and to query parameters.
func dateRange(c *gin.Context, from, to time.Time) (time.Time, time.Time, error) {
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = parseDate(raw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = parseDate(raw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, invalid("to must not be before from")
	}
	return from, to, nil
}

// PutProduction handles PUT /barbers/:id/productions/:date. A second PUT for the
// same day replaces the row.
func (h *APIHandler) PutProduction(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var in models.ProductionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}
	in.BarberID = c.Param("id")
	in.Date = date

	record, err := h.recorder.Record(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteProduction handles DELETE /barbers/:id/productions/:date.
func (h *APIHandler) DeleteProduction(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.recorder.Delete(c.Request.Context(), c.Param("id"), date); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProductions handles GET /barbers/:id/productions?from=&to=, defaulting to
// the current month.
func (h *APIHandler) ListProductions(c *gin.Context) {
	today := h.reporter.Today()
	monthStart, monthEnd := calendar.MonthBounds(today.Year(), today.Month(), nil)
	from, to, err := dateRange(c, monthStart, monthEnd)
	if err != nil {
		h.fail(c, err)
		return
	}

	rows, err := h.store.ListProductions(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Dashboard handles GET /barbers/:id/dashboard?year=&month=.
func (h *APIHandler) Dashboard(c *gin.Context) {
	year, month, err := h.optionalYearMonth(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	dash, err := h.reporter.Dashboard(c.Request.Context(), c.Param("id"), year, month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Evolution handles GET /barbers/:id/evolution?year=.
func (h *APIHandler) Evolution(c *gin.Context) {
	year, _, err := h.optionalYearMonth(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	points, err := h.reporter.Evolution(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Leaderboard handles GET /leaderboard?period=&unit_id=&from=&to=. An explicit
// from or to overrides the matching bound of the named period.
func (h *APIHandler) Leaderboard(c *gin.Context) {
	period := c.DefaultQuery("period", leaderboard.PeriodCurrentMonth)
	if err := leaderboard.ValidPeriod(period); err != nil {
		h.fail(c, invalid("%v", err))
		return
	}
	unitID := c.Query("unit_id")
	if c.Query("from") == "" && c.Query("to") == "" {
		lb, err := h.reporter.Leaderboard(c.Request.Context(), period, unitID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, lb)
		return
	}

	periodStart, periodEnd := leaderboard.Range(period, h.reporter.Today())
	from, to, err := dateRange(c, periodStart, periodEnd)
	if err != nil {
		h.fail(c, err)
		return
	}
	lb, err := h.reporter.LeaderboardBetween(c.Request.Context(), from, to, unitID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}

// Overview handles GET /reports/overview?year=&month=.
func (h *APIHandler) Overview(c *gin.Context) {
	year, month, err := h.optionalYearMonth(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	overview, err := h.reporter.Overview(c.Request.Context(), year, month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
