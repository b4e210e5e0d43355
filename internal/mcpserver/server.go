// Package mcpserver exposes the memory tools over the Model Context Protocol.
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rcliao/firebase-memory/internal/tools"
)

// Name is the server name announced to clients.
const Name = "firebase-memory"

// Server is an MCP server whose tools/call failures carry the JSON-RPC code
// of the dispatcher error kind. mcp-go alone reports every handler error as
// an internal error and unknown tools as invalid params.
type Server struct {
	mcp  *server.MCPServer
	disp *tools.Dispatcher
}

type failureKey struct{}

// failure holds the dispatcher error of the tools/call being handled.
type failure struct {
	err error
}

// New creates an MCP server with every memory tool registered.
func New(d *tools.Dispatcher, version string) *Server {
	s := &Server{disp: d}

	hooks := &server.Hooks{}
	hooks.AddOnError(s.recordFailure)

	s.mcp = server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)
	for _, def := range Definitions() {
		s.mcp.AddTool(def, handler(d))
	}
	return s
}

// handler forwards a call to the dispatcher.
func handler(d *tools.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := d.Call(ctx, req.Params.Name, req.GetArguments())
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
}

// recordFailure stores the dispatcher error behind a failed tools/call. Names
// mcp-go has no tool for go through the dispatcher so they fail the same way
// an unknown name does in-process.
func (s *Server) recordFailure(ctx context.Context, _ any, method mcp.MCPMethod, message any, err error) {
	f, ok := ctx.Value(failureKey{}).(*failure)
	if !ok || method != mcp.MethodToolsCall {
		return
	}
	var te *tools.Error
	switch {
	case errors.As(err, &te):
		f.err = te
	case errors.Is(err, server.ErrToolNotFound):
		req, ok := message.(*mcp.CallToolRequest)
		if !ok {
			return
		}
		_, f.err = s.disp.Call(ctx, req.Params.Name, req.GetArguments())
	}
}

// HandleMessage processes one JSON-RPC message and returns the response, or
// nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, msg json.RawMessage) mcp.JSONRPCMessage {
	f := &failure{}
	resp := s.mcp.HandleMessage(context.WithValue(ctx, failureKey{}, f), msg)

	e, ok := resp.(mcp.JSONRPCError)
	if !ok || f.err == nil {
		return resp
	}
	e.Error.Code = tools.KindOf(f.err).Code()
	e.Error.Message = f.err.Error()
	return e
}

// Serve reads newline-delimited JSON-RPC messages from in and writes
// responses to out until ctx is cancelled or in reaches EOF.
func Serve(ctx context.Context, s *Server, in io.Reader, out io.Writer, errLog *log.Logger) error {
	if errLog == nil {
		errLog = log.New(io.Discard, "", 0)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if len(line) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			errLog.Printf("read input: %v", err)
			return err
		case line := <-lines:
			if err := s.serveLine(ctx, line, out); err != nil {
				errLog.Printf("write response: %v", err)
				return err
			}
		}
	}
}

func (s *Server) serveLine(ctx context.Context, line string, out io.Writer) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return writeMessage(out, mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.PARSE_ERROR, "Parse error", nil))
	}
	resp := s.HandleMessage(ctx, raw)
	if resp == nil {
		return nil
	}
	return writeMessage(out, resp)
}

func writeMessage(out io.Writer, msg mcp.JSONRPCMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", b)
	return err
}
