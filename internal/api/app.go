// Package api binds the operation surface to JSON over HTTP. It is a thin
// layer: decode the request, call the named operation, encode the result or
// map the error kind to a status code. Guards and validation live in the
// service layer, not here.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/service"
	"github.com/khairulz/tripmate/internal/telemetry"
)

// App routes requests to the operation surface.
type App struct {
	users    *service.UserService
	expenses *service.ExpenseService
	todos    *service.TodoService
	metrics  *telemetry.Metrics
}

// New creates the API app over the given services.
func New(users *service.UserService, expenses *service.ExpenseService, todos *service.TodoService, metrics *telemetry.Metrics) *App {
	return &App{users: users, expenses: expenses, todos: todos, metrics: metrics}
}

// Router builds the route table. One route per named operation.
func (a *App) Router() *httprouter.Router {
	router := httprouter.New()

	router.GET("/v1/users", a.instrument("ListUsers", a.listUsers))
	router.GET("/v1/users/:username", a.instrument("GetUser", a.getUser))
	router.POST("/v1/users", a.instrument("CreateUser", a.createUser))
	router.POST("/v1/signin", a.instrument("SignIn", a.signIn))
	router.GET("/v1/me", a.instrument("Me", a.me))
	router.PUT("/v1/me/flight-ticket", a.instrument("SetPurchaseFlightTicket", a.setPurchaseFlightTicket))
	router.GET("/v1/me/assignments", a.instrument("MyAssignments", a.myAssignments))

	router.GET("/v1/expenses", a.instrument("ListExpenses", a.listExpenses))
	router.GET("/v1/expenses/:id", a.instrument("GetExpense", a.getExpense))
	router.POST("/v1/expenses", a.instrument("CreateExpense", a.createExpense))
	router.PUT("/v1/expenses/:id", a.instrument("UpdateExpense", a.updateExpense))
	router.DELETE("/v1/expenses/:id", a.instrument("DeleteExpense", a.deleteExpense))

	router.GET("/v1/todos", a.instrument("ListTodos", a.listTodos))
	router.POST("/v1/todos", a.instrument("CreateTodo", a.createTodo))
	router.POST("/v1/todos/:id/assignments", a.instrument("AssignTodo", a.assignTodo))
	router.PATCH("/v1/todos/:id/assignment", a.instrument("UpdateMyAssignmentStatus", a.updateMyAssignmentStatus))

	router.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return router
}

// instrument records metrics for one named operation. Handlers return the
// operation error so the outcome label is accurate.
func (a *App) instrument(operation string, h func(http.ResponseWriter, *http.Request, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		err := h(w, r, ps)
		if err != nil {
			writeError(w, err)
		}
		a.metrics.Observe(operation, err, time.Since(start))
	}
}

func pathID(ps httprouter.Params, name string) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil {
		return 0, errs.Validationf("invalid %s", name)
	}
	return id, nil
}

func (a *App) listUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	users, err := a.users.ListUsers(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, users)
	return nil
}

func (a *App) getUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	user, err := a.users.GetUser(r.Context(), ps.ByName("username"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, user)
	return nil
}

// sessionResponse carries a user plus the token that identifies them.
type sessionResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

func (a *App) createUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	user, token, err := a.users.CreateUser(r.Context(), req.Username)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
	return nil
}

func (a *App) signIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	user, token, err := a.users.SignIn(r.Context(), req.Username)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
	return nil
}

func (a *App) me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	user, err := a.users.Me(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, user)
	return nil
}

func (a *App) setPurchaseFlightTicket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var req struct {
		Purchased bool `json:"purchased"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	user, err := a.users.SetPurchaseFlightTicket(r.Context(), req.Purchased)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, user)
	return nil
}

func (a *App) myAssignments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	assignments, err := a.todos.MyAssignments(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, assignments)
	return nil
}

func (a *App) listExpenses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	expenses, err := a.expenses.ListExpenses(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, expenses)
	return nil
}

func (a *App) getExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id, err := pathID(ps, "id")
	if err != nil {
		return err
	}
	expense, err := a.expenses.GetExpense(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, expense)
	return nil
}

func (a *App) createExpense(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input service.ExpenseInput
	if err := decode(r, &input); err != nil {
		return err
	}

	expense, err := a.expenses.CreateExpense(r.Context(), input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, expense)
	return nil
}

func (a *App) updateExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id, err := pathID(ps, "id")
	if err != nil {
		return err
	}
	var input service.ExpenseInput
	if err := decode(r, &input); err != nil {
		return err
	}

	expense, err := a.expenses.UpdateExpense(r.Context(), id, input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, expense)
	return nil
}

func (a *App) deleteExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id, err := pathID(ps, "id")
	if err != nil {
		return err
	}
	if err := a.expenses.DeleteExpense(r.Context(), id); err != nil {
		return err
	}
	writeJSON(w, http.StatusNoContent, nil)
	return nil
}

func (a *App) listTodos(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	todos, err := a.todos.ListTodos(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, todos)
	return nil
}

func (a *App) createTodo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var req struct {
		Item    string         `json:"item"`
		Details map[string]any `json:"details"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	todo, err := a.todos.CreateTodo(r.Context(), req.Item, req.Details)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, todo)
	return nil
}

func (a *App) assignTodo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id, err := pathID(ps, "id")
	if err != nil {
		return err
	}
	var req struct {
		UserIDs []int64 `json:"userIds"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	assignments, err := a.todos.AssignTodo(r.Context(), id, req.UserIDs)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, assignments)
	return nil
}

func (a *App) updateMyAssignmentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id, err := pathID(ps, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	assignment, err := a.todos.UpdateMyAssignmentStatus(r.Context(), id, req.Status)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, assignment)
	return nil
}
