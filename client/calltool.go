package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JeffreyRichter/mcpgrpc/internal/aids"
	"github.com/JeffreyRichter/mcpgrpc/internal/convert"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
)

// CallToolOptions configures a single CallTool invocation.
type CallToolOptions struct {
	// Timeout overrides the session default; zero falls back to
	// Options.DefaultTimeout (spec §4.F call_tool step 3).
	Timeout time.Duration
	// ProgressCallback, if set, receives every progress frame the tool
	// reports before the terminal frame arrives.
	ProgressCallback ProgressCallback
}

type rawCallToolResult struct {
	content    []*mcppb.Content
	structured *structpb.Struct
	isError    bool
}

// CallTool invokes name with arguments and returns its normalized result
// (spec §4.F call_tool). A request id is allocated for cancellation/
// progress correlation and the version-retry policy applies once, exactly
// as the unary wrapper's.
func (s *Session) CallTool(ctx context.Context, name string, arguments map[string]any, opts CallToolOptions) (mcp.CallToolResult, error) {
	id := s.requestCounter.Add(1)

	if opts.ProgressCallback != nil {
		s.mu.Lock()
		s.progressCallbacks[id] = opts.ProgressCallback
		s.mu.Unlock()
	}
	defer func() {
		s.mu.Lock()
		delete(s.progressCallbacks, id)
		delete(s.runningCalls, id)
		s.mu.Unlock()
	}()

	timeout := aids.Iif(opts.Timeout == 0, s.defaultTimeout, opts.Timeout)

	argStruct, err := convert.StructuredToWire(arguments)
	if err != nil {
		return mcp.CallToolResult{}, parseError("CallTool", err)
	}

	var lastErr error
	var lastWaited time.Duration
	for attempt := 0; attempt < 2; attempt++ {
		raw, retryVersion, callErr, waited := s.attemptCallTool(ctx, id, name, argStruct, timeout)
		if callErr == nil {
			return s.finalizeCallToolResult(ctx, name, raw)
		}
		lastErr, lastWaited = callErr, waited
		if attempt == 0 && retryVersion != "" {
			s.setVersion(retryVersion)
			continue
		}
		break
	}
	return mcp.CallToolResult{}, mapCallToolError(lastErr, lastWaited)
}

// attemptCallTool runs one full CallTool attempt: open the stream, send the
// single request frame, and drain responses. If the attempt fails with
// UNIMPLEMENTED and the server offered a supported version in its initial
// metadata, the version to retry with is returned (spec §4.F step 8: "on
// retry, the full request generator is rebuilt").
func (s *Session) attemptCallTool(ctx context.Context, id int64, name string, argStruct *structpb.Struct, timeout time.Duration) (*rawCallToolResult, string, error, time.Duration) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		callCtx, cancelTimeout = context.WithTimeout(callCtx, timeout)
		defer cancelTimeout()
	}

	s.mu.Lock()
	s.runningCalls[id] = cancel
	s.mu.Unlock()

	md := metadata.Pairs(mcp.ToolNameMetadataKey, name, mcp.ProtocolVersionMetadataKey, s.version())
	streamCtx := metadata.NewOutgoingContext(callCtx, md)

	start := time.Now()
	stream, err := s.client.CallTool(streamCtx)
	if err != nil {
		return nil, "", err, time.Since(start)
	}

	token := formatToken(id)
	if err := stream.Send(&mcppb.CallToolRequest{Name: name, Arguments: argStruct, ProgressToken: &token}); err != nil {
		return nil, "", err, time.Since(start)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, "", err, time.Since(start)
	}

	raw, err := s.receiveCallToolFrames(stream, id)
	waited := time.Since(start)
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.Unimplemented {
			if header, hErr := stream.Header(); hErr == nil {
				if v := header.Get(mcp.ProtocolVersionMetadataKey); len(v) > 0 && mcp.IsSupportedVersion(v[0]) {
					return nil, v[0], err, waited
				}
			}
		}
		return nil, "", err, waited
	}
	return raw, "", nil, waited
}

func (s *Session) receiveCallToolFrames(stream mcppb.Mcp_CallToolClient, id int64) (*rawCallToolResult, error) {
	for {
		frame, err := stream.Recv()
		if err == io.EOF {
			return nil, errors.New("CallTool stream ended without a terminal frame")
		}
		if err != nil {
			return nil, err
		}
		switch {
		case frame.Progress != nil:
			s.dispatchProgress(id, frame.Progress)
		case frame.Result != nil:
			return &rawCallToolResult{
				content:    frame.Result.Content,
				structured: frame.Result.StructuredContent,
				isError:    frame.Result.IsError,
			}, nil
		}
	}
}

// dispatchProgress routes a progress frame to its registered callback,
// dropping it with a warning if the token isn't integer-shaped (spec §9:
// "keep IDs opaque on the wire ... log a warning and drop the progress
// frame if a received token cannot be parsed as integer").
func (s *Session) dispatchProgress(fallbackID int64, pf *mcppb.ProgressFrame) {
	token, err := strconv.ParseInt(pf.Token, 10, 64)
	if err != nil {
		s.notify(fmt.Sprintf("warning: CallTool progress token %q is not integer-shaped, dropping", pf.Token))
		return
	}
	s.mu.Lock()
	cb, ok := s.progressCallbacks[token]
	s.mu.Unlock()
	if !ok {
		return
	}
	cb(mcp.ProgressNotification{Token: token, Progress: pf.Progress, Total: pf.Total, Message: pf.Message})
	_ = fallbackID
}

func (s *Session) finalizeCallToolResult(ctx context.Context, name string, raw *rawCallToolResult) (mcp.CallToolResult, error) {
	content, err := convert.ContentBlocksFromWire(raw.content)
	if err != nil {
		return mcp.CallToolResult{}, parseError("CallTool", err)
	}
	structured := convert.StructuredFromWire(raw.structured)
	result := mcp.CallToolResult{Content: content, Structured: structured, IsError: raw.isError}

	if !result.IsError {
		if tool, err := s.cachedTool(ctx, name); err == nil && !tool.OutputSchema.Empty() {
			if verr := convert.ValidateOutputSchema(tool.OutputSchema, result.Structured); verr != nil {
				return mcp.CallToolResult{}, validationError(name, verr)
			}
		}
	}
	return result, nil
}

// cachedTool looks up name in the tools cache, refreshing via ListTools on
// a miss (spec §4.F call_tool step 7).
func (s *Session) cachedTool(ctx context.Context, name string) (mcp.Tool, error) {
	if tools, ok := s.caches.tools.Get(); ok {
		if t, ok := findTool(tools, name); ok {
			return t, nil
		}
	}
	tools, err := s.ListTools(ctx)
	if err != nil {
		return mcp.Tool{}, err
	}
	if t, ok := findTool(tools, name); ok {
		return t, nil
	}
	return mcp.Tool{}, fmt.Errorf("tool %q not found in catalog", name)
}

func findTool(tools []mcp.Tool, name string) (mcp.Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return mcp.Tool{}, false
}

func mapCallToolError(err error, waited time.Duration) *mcp.Error {
	if errors.Is(err, context.Canceled) {
		return mcp.NewError(mcp.CodeRequestCancelled, "%s", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return mcp.NewError(mcp.CodeRequestTimeout, "Timed out while waiting for response to CallTool. Waited %.0f seconds.", waited.Seconds())
	}
	st, ok := status.FromError(err)
	if !ok {
		return mcp.NewError(mcp.CodeInternalError, "CallTool: %s", err)
	}
	switch st.Code() {
	case codes.Canceled:
		return mcp.NewError(mcp.CodeRequestCancelled, "%s", st.Message())
	case codes.DeadlineExceeded:
		return mcp.NewError(mcp.CodeRequestTimeout, "Timed out while waiting for response to CallTool. Waited %.0f seconds.", waited.Seconds())
	default:
		return mcp.NewError(mcp.CodeInternalError, "%s", st.Message())
	}
}

func formatToken(id int64) string { return strconv.FormatInt(id, 10) }
