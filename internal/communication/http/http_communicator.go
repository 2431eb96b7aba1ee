package httpcomm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service"
)

type HTTPCommunicator struct {
	listenAddress string
	httpServer    *http.Server
	handler       communication.MessageHandler
	ls            log_service.LogService
	clientLock    sync.RWMutex
	clients       map[string]*http.Client
	timeout       time.Duration
}

func NewHTTPCommunicator(listenAddress string, ls log_service.LogService) *HTTPCommunicator {
	return &HTTPCommunicator{
		listenAddress: listenAddress,
		ls:            ls,
		clients:       make(map[string]*http.Client),
		timeout:       30 * time.Second,
	}
}

// Address returns the address being served. After Start it is the
// bound address, so a ":0" listen address resolves to the real port.
func (c *HTTPCommunicator) Address() string {
	return c.listenAddress
}

func (c *HTTPCommunicator) Start(handler communication.MessageHandler) error {
	c.ls.Info(log_service.LogEvent{
		Message:  "Starting HTTP communicator",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	c.handler = handler

	mux := http.NewServeMux()
	mux.HandleFunc("/message", c.handleHTTPMessage)

	lis, err := net.Listen("tcp", c.listenAddress)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to listen on address",
			Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
		})
		return fmt.Errorf("%w: %v", communication.ErrServerStartFailed, err)
	}
	c.listenAddress = lis.Addr().String()

	c.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	c.ls.Info(log_service.LogEvent{
		Message:  "HTTP communicator started successfully",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	go func() {
		if err := c.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.ls.Error(log_service.LogEvent{
				Message:  "HTTP server error",
				Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
			})
		}
	}()

	return nil
}

func (c *HTTPCommunicator) Stop() error {
	if c.httpServer == nil {
		return nil
	}

	c.ls.Info(log_service.LogEvent{
		Message:  "Stopping HTTP communicator",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.httpServer.Shutdown(ctx); err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to stop HTTP server",
			Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
		})
		return communication.ErrServerStopFailed
	}

	c.ls.Info(log_service.LogEvent{
		Message:  "HTTP communicator stopped successfully",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	return nil
}

func mapFromHTTPCode(code int) communication.SandCode {
	switch code {
	case http.StatusOK:
		return communication.CodeOK
	case http.StatusBadRequest:
		return communication.CodeBadRequest
	case http.StatusNotFound:
		return communication.CodeNotFound
	case http.StatusConflict:
		return communication.CodeAlreadyExists
	case http.StatusInsufficientStorage:
		return communication.CodeResourceExhausted
	case http.StatusPreconditionFailed:
		return communication.CodeFailedPrecondition
	case http.StatusServiceUnavailable:
		return communication.CodeUnavailable
	default:
		return communication.CodeInternal
	}
}

func mapToHTTPCode(code communication.SandCode) int {
	switch code {
	case communication.CodeOK:
		return http.StatusOK
	case communication.CodeBadRequest:
		return http.StatusBadRequest
	case communication.CodeNotFound:
		return http.StatusNotFound
	case communication.CodeAlreadyExists:
		return http.StatusConflict
	case communication.CodeResourceExhausted:
		return http.StatusInsufficientStorage
	case communication.CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case communication.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (c *HTTPCommunicator) client(to string) *http.Client {
	c.clientLock.RLock()
	client, ok := c.clients[to]
	c.clientLock.RUnlock()
	if ok {
		return client
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "Creating new HTTP client",
		Metadata: map[string]any{"to": to},
	})

	c.clientLock.Lock()
	defer c.clientLock.Unlock()
	if client, ok := c.clients[to]; ok {
		return client
	}
	client = &http.Client{Timeout: c.timeout}
	c.clients[to] = client
	return client
}

func (c *HTTPCommunicator) Send(ctx context.Context, to string, msg communication.Message) (*communication.Response, error) {
	c.ls.Debug(log_service.LogEvent{
		Message:  "Sending HTTP message",
		Metadata: map[string]any{"to": to, "type": msg.Type, "id": msg.ID},
	})

	if msg.From == "" {
		msg.From = c.listenAddress
	}
	jsonData, err := json.Marshal(msg)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to marshal message",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, communication.ErrMessageMarshalFailed
	}

	url := fmt.Sprintf("http://%s/message", to)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to create HTTP request",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, communication.ErrHTTPRequestCreateFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client(to).Do(req)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to send HTTP request",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, fmt.Errorf("%w: %v", communication.ErrHTTPRequestSendFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to read HTTP response body",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, communication.ErrHTTPResponseReadFailed
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "HTTP message sent successfully",
		Metadata: map[string]any{"to": to, "type": msg.Type, "statusCode": resp.StatusCode},
	})

	headers := map[string]string{}
	for key, values := range resp.Header {
		headers[key] = values[0]
	}

	return &communication.Response{
		Code:    mapFromHTTPCode(resp.StatusCode),
		Body:    respBody,
		Headers: headers,
	}, nil
}

func (c *HTTPCommunicator) handleHTTPMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		c.ls.Warn(log_service.LogEvent{
			Message:  "HTTP method not allowed",
			Metadata: map[string]any{"method": r.Method, "remoteAddr": r.RemoteAddr},
		})
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to read HTTP request body",
			Metadata: map[string]any{"remoteAddr": r.RemoteAddr, "error": err.Error()},
		})
		http.Error(w, communication.ErrHTTPBodyReadFailed.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var msg communication.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Invalid JSON in HTTP request",
			Metadata: map[string]any{"remoteAddr": r.RemoteAddr, "error": err.Error()},
		})
		http.Error(w, communication.ErrInvalidJSON.Error(), http.StatusBadRequest)
		return
	}

	if msg.Type == "" {
		c.ls.Warn(log_service.LogEvent{
			Message:  "Missing required fields in HTTP request",
			Metadata: map[string]any{"remoteAddr": r.RemoteAddr, "from": msg.From},
		})
		http.Error(w, communication.ErrMissingRequiredFields.Error(), http.StatusBadRequest)
		return
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "Received HTTP message",
		Metadata: map[string]any{"from": msg.From, "type": msg.Type, "id": msg.ID, "remoteAddr": r.RemoteAddr},
	})

	if c.handler == nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "HTTP handler not set",
			Metadata: map[string]any{"from": msg.From, "type": msg.Type},
		})
		http.Error(w, communication.ErrHandlerNotSet.Error(), http.StatusInternalServerError)
		return
	}

	resp, err := c.handler(r.Context(), msg)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Message handler error",
			Metadata: map[string]any{"from": msg.From, "type": msg.Type, "error": err.Error()},
		})
		http.Error(w, fmt.Sprintf("%v: %v", communication.ErrMessageHandlerFailed, err), http.StatusInternalServerError)
		return
	}

	if resp == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if len(resp.Body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	httpStatus := mapToHTTPCode(resp.Code)
	w.WriteHeader(httpStatus)
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "HTTP response sent",
		Metadata: map[string]any{"to": msg.From, "code": resp.Code, "httpStatus": httpStatus},
	})
}

var _ communication.Communicator = (*HTTPCommunicator)(nil)
