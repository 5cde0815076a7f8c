// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the pomotask task list and usage stats as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/internal/observability"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

// Server wraps pomotask services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	taskMgr     core.TaskManager
	identityMgr core.IdentityManager
	metricsCalc observability.MetricsCalculator

	// mu serialises tool calls; TaskManager is not safe for concurrent use.
	mu sync.Mutex
}

// NewServer creates a new MCP server. identityMgr and metricsCalc may be nil.
func NewServer(taskMgr core.TaskManager, identityMgr core.IdentityManager, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		taskMgr:     taskMgr,
		identityMgr: identityMgr,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "pomotask", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type listTasksInput struct {
	View string `json:"view,omitempty" jsonschema:"which tab to list: daily or weekly. Defaults to daily."`
}

type listTasksOutput struct {
	View      string       `json:"view"`
	Tasks     []taskOutput `json:"tasks"`
	Count     int          `json:"count"`
	Completed int          `json:"completed"`
}

type addTaskInput struct {
	Text string `json:"text" jsonschema:"required,the task text; surrounding whitespace is trimmed"`
}

type editTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier returned by list_tasks"`
	Text   string `json:"text" jsonschema:"required,the replacement text"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier returned by list_tasks"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type whoamiInput struct{}

type whoamiOutput struct {
	Onboarded bool   `json:"onboarded"`
	Username  string `json:"username,omitempty"`
	HasAvatar bool   `json:"has_avatar"`
}

type getStatsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for stats (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type statsOutput struct {
	TasksAdded     int    `json:"tasks_added"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksDeleted   int    `json:"tasks_deleted"`
	FocusIntervals int    `json:"focus_intervals"`
	BreakIntervals int    `json:"break_intervals"`
	FocusMinutes   int    `json:"focus_minutes"`
	EventCount     int    `json:"event_count"`
	OldestEvent    string `json:"oldest_event,omitempty"`
	NewestEvent    string `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in insertion order for the daily or weekly tab, with completion counts.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Append a new, not yet completed task. Empty text is rejected.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "edit_task",
		Description: "Replace the text of an existing task, keeping its position and completion flag.",
	}, s.handleEditTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between completed and not completed.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Remove a task permanently.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "whoami",
		Description: "Return the onboarded user's display name and whether an avatar is set.",
	}, s.handleWhoami)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_stats",
		Description: "Get focus and task statistics from the event log: completed intervals, focus minutes, tasks added and completed.",
	}, s.handleGetStats)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	view := models.TaskView(input.View)
	if view == "" {
		view = models.TaskViewDaily
	}
	if view != models.TaskViewDaily && view != models.TaskViewWeekly {
		return errorResult(fmt.Sprintf("invalid view %q: must be daily or weekly", input.View)), listTasksOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.taskMgr.Load(ctx); err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}
	tasks := s.taskMgr.Tasks(view)
	counts := s.taskMgr.Counts()

	out := listTasksOutput{
		View:      string(view),
		Tasks:     make([]taskOutput, len(tasks)),
		Count:     counts.Total,
		Completed: counts.Completed,
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleAddTask(ctx context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.taskMgr.Load(ctx); err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	task, err := s.taskMgr.AddTask(ctx, input.Text)
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleEditTask(ctx context.Context, _ *gomcp.CallToolRequest, input editTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.requireTask(ctx, input.TaskID); res != nil {
		return res, taskOutput{}, nil
	}
	if err := s.taskMgr.EditTask(ctx, input.TaskID, input.Text); err != nil {
		return errorResult(fmt.Sprintf("editing task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	task, _ := s.taskMgr.GetTask(input.TaskID)
	return nil, taskToOutput(task), nil
}

func (s *Server) handleToggleTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.requireTask(ctx, input.TaskID); res != nil {
		return res, taskOutput{}, nil
	}
	if err := s.taskMgr.ToggleComplete(ctx, input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("toggling task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	task, _ := s.taskMgr.GetTask(input.TaskID)
	return nil, taskToOutput(task), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), messageOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.requireTask(ctx, input.TaskID); res != nil {
		return res, messageOutput{}, nil
	}
	if err := s.taskMgr.DeleteTask(ctx, input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("deleting task %s: %s", input.TaskID, err)), messageOutput{}, nil
	}
	return nil, messageOutput{Message: fmt.Sprintf("task %s deleted", input.TaskID)}, nil
}

func (s *Server) handleWhoami(ctx context.Context, _ *gomcp.CallToolRequest, _ whoamiInput) (*gomcp.CallToolResult, whoamiOutput, error) {
	if s.identityMgr == nil {
		return errorResult("identity store not available"), whoamiOutput{}, nil
	}
	id, ok, err := s.identityMgr.Load(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("loading identity: %s", err)), whoamiOutput{}, nil
	}
	if !ok {
		return nil, whoamiOutput{}, nil
	}
	return nil, whoamiOutput{Onboarded: true, Username: id.Username, HasAvatar: id.HasAvatar()}, nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, input getStatsInput) (*gomcp.CallToolResult, statsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("stats not available (event log may be disabled)"), statsOutput{}, nil
	}

	sinceTime, err := observability.ParseSince(input.Since, time.Now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), statsOutput{}, nil
	}

	m, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating stats: %s", err)), statsOutput{}, nil
	}

	out := statsOutput{
		TasksAdded:     m.TasksAdded,
		TasksCompleted: m.TasksCompleted,
		TasksDeleted:   m.TasksDeleted,
		FocusIntervals: m.FocusIntervals,
		BreakIntervals: m.BreakIntervals,
		FocusMinutes:   int(m.FocusTime().Minutes()),
		EventCount:     m.EventCount,
	}
	if m.OldestEvent != nil {
		out.OldestEvent = m.OldestEvent.Format(time.RFC3339)
	}
	if m.NewestEvent != nil {
		out.NewestEvent = m.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

// --- Helpers ---

// requireTask reloads the task list and returns an error result when id is
// unknown. The core treats unknown ids as no-ops; over MCP the caller
// supplies the id, so it is reported.
func (s *Server) requireTask(ctx context.Context, id string) *gomcp.CallToolResult {
	if err := s.taskMgr.Load(ctx); err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err))
	}
	if _, ok := s.taskMgr.GetTask(id); !ok {
		return errorResult(fmt.Sprintf("task %s not found", id))
	}
	return nil
}

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{ID: t.ID, Text: t.Text, Completed: t.Completed}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
