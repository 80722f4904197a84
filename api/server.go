package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"churn-predictor/features"
	"churn-predictor/metrics"
	"churn-predictor/model"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

/*
Server represents the API server
*/
type Server struct {
	invoker *model.Invoker
	http    *http.Server
}

/*
NewServer creates a new API server
*/
func NewServer(invoker *model.Invoker) *Server {
	return &Server{
		invoker: invoker,
	}
}

/*
Handler returns the routes of the server wrapped in its middleware
*/
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.HandleForm)
	mux.HandleFunc("/api/predict", s.HandlePredict)
	mux.HandleFunc("/api/features", s.handleFeatures)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return recoverMiddleware(trackMiddleware(mux))
}

/*
Start starts the HTTP server
*/
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

/*
Shutdown stops the HTTP server, waiting for in-flight requests
*/
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

/*
Predict runs one full request: assemble, invoke, present.

Every failure is turned into a Result; the returned error is only for
status mapping and logging.
*/
func (s *Server) Predict(ctx context.Context, in features.Inputs) (Result, error) {
	vector, err := features.Assemble(in)
	if err != nil {
		metrics.ErrorCount.WithLabelValues(errorKind(err)).Inc()
		return Present(0, err), err
	}

	label, err := s.invoker.Predict(ctx, vector)
	if err != nil {
		log.WithField("error", err).Error("Prediction failed")
		metrics.ErrorCount.WithLabelValues(errorKind(err)).Inc()
		return Present(0, err), err
	}
	metrics.Predictions.WithLabelValues(label.String()).Inc()

	result := Present(label, nil)
	if p, ok := s.invoker.Probability(ctx, vector); ok {
		result.Probability = &p
	}
	log.WithField("label", label).Debug("Prediction served")
	return result, nil
}

/*
HandlePredict handles JSON prediction requests
*/
func (s *Server) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Level: LevelError, Message: "Invalid request body", Error: err.Error()})
		return
	}

	result, err := s.Predict(r.Context(), features.InputsFromJSON(body))
	writeJSON(w, statusFor(err), result)
}

/*
handleFeatures lists the columns and the inputs the form collects
*/
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Order  []string         `json:"order"`
		Fields []features.Field `json:"fields"`
	}{features.Order(), features.Fields()})
}

/*
handleWebSocket handles WebSocket connections
*/
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithField("error", err).Warn("Failed to upgrade connection")
		return
	}
	defer conn.Close()

	// Set read deadline
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Handle WebSocket messages
	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var request struct {
			Type   string         `json:"type"`
			Inputs map[string]any `json:"inputs"`
		}
		if err := json.Unmarshal(p, &request); err != nil {
			writeMessage(conn, messageType, map[string]string{"error": "Invalid JSON"})
			continue
		}

		switch request.Type {
		case "predict":
			result, _ := s.Predict(r.Context(), features.InputsFromJSON(request.Inputs))
			writeMessage(conn, messageType, result)
		default:
			writeMessage(conn, messageType, map[string]string{"error": "Unknown message type"})
		}
	}
}

func writeMessage(conn *websocket.Conn, messageType int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(`{"error": "Failed to encode response"}`)
	}
	if err := conn.WriteMessage(messageType, data); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		log.WithField("error", err).Debug("Failed to write websocket message")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("error", err).Warn("Failed to encode response")
	}
}
