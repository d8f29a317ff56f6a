package annotator

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
)

// AnnotateMethod is the unary RPC served by the Python Stanza service. It
// takes and returns google.protobuf.Struct messages.
const AnnotateMethod = "/stanza.Annotator/Annotate"

// #region client-struct
// Client wraps the gRPC connection to the syntactic annotation service.
type Client struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
}

// #endregion client-struct

// #region constructor
// NewClient connects to the annotation gRPC server. A positive timeout bounds
// each Annotate call.
func NewClient(addr string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, closer: conn.Close, timeout: timeout}, nil
}

// NewClientWithConn creates a Client over an existing connection.
// Used for testing without a real server.
func NewClientWithConn(conn grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{conn: conn, timeout: timeout}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection when the client owns it.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// #endregion close

// #region annotate
// Annotate sends raw text to the service and returns the annotated sentences.
func (c *Client) Annotate(ctx context.Context, docID string, lang annotation.Language, text string) ([]annotation.Sentence, error) {
	req, err := structpb.NewStruct(map[string]any{
		"doc_id":   docID,
		"language": string(lang),
		"text":     text,
	})
	if err != nil {
		return nil, fmt.Errorf("build annotate request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, AnnotateMethod, req, resp); err != nil {
		return nil, fmt.Errorf("annotate rpc %s: %w", docID, err)
	}

	data, err := protojson.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode annotate response %s: %w", docID, err)
	}
	sentences, err := annotation.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode annotate response %s: %w", docID, err)
	}
	return sentences, nil
}

// #endregion annotate
