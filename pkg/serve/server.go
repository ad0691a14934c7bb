// Package serve runs an NDJSON identification loop over a reader and a
// writer, for tools that drive nsfid as a subprocess.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/scanner"
	"github.com/nsfid/nsfid/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming scanner. Requests are handled one at a
// time, so the Core is never used concurrently.
type Server struct {
	core    *scanner.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *scanner.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "identify":
		s.handleIdentify(req.Payload)
	case "identify_batch":
		s.handleIdentifyBatch(req.Payload)
	case "summary":
		s.handleSummary()
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{
		Version: Version,
		Drivers: s.core.Session().Registry().Len(),
	})
}

func (s *Server) handleIdentify(payload json.RawMessage) {
	var p IdentifyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("identify", err.Error())
		return
	}
	s.send("identify", s.core.Scan(p.Name, p.Content))
}

func (s *Server) handleIdentifyBatch(payload json.RawMessage) {
	var p IdentifyBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("identify_batch", err.Error())
		return
	}

	batch := BatchResult{Results: make([]*types.Result, 0, len(p.Items))}
	for _, item := range p.Items {
		batch.Results = append(batch.Results, s.core.Scan(item.Name, item.Content))
	}
	s.send("identify_batch", batch)
}

func (s *Server) handleSummary() {
	session := s.core.Session()
	found := session.Found()
	if found == nil {
		found = []registry.DriverCount{}
	}
	s.send("summary", SummaryData{Drivers: found, Totals: session.Totals()})
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
