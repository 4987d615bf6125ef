/*
File Name:  API.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package webapi

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/SkylinkProject/core"
)

// WebapiInstance is the monitoring and control surface of one backend.
type WebapiInstance struct {
	Backend *core.Backend

	// Router can be used to register additional API functions
	Router *mux.Router
}

// WSUpgrader is used for websocket functionality. It allows all requests.
var WSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// allow all connections by default
		return true
	},
}

// Start starts the API. ListenAddresses is a list of IP:Ports.
// The certificate file and key are only used if SSL is enabled. The read and
// write timeout may be 0 for no timeout. The API key may be uuid.Nil to
// disable authentication although this is not recommended.
func Start(Backend *core.Backend, ListenAddresses []string, UseSSL bool, CertificateFile, CertificateKey string, TimeoutRead, TimeoutWrite time.Duration, APIKey uuid.UUID) (api *WebapiInstance) {
	if len(ListenAddresses) == 0 {
		return nil
	}

	api = &WebapiInstance{
		Backend: Backend,
		Router:  mux.NewRouter(),
	}

	if APIKey != uuid.Nil {
		api.Router.Use(api.authenticateMiddleware(APIKey))
	}

	api.registerRoutes()

	for _, listen := range ListenAddresses {
		go startWebAPI(Backend, listen, UseSSL, CertificateFile, CertificateKey, api.Router, "API", TimeoutRead, TimeoutWrite)
	}

	return api
}

func (api *WebapiInstance) registerRoutes() {
	api.Router.HandleFunc("/test", apiTest).Methods("GET")
	api.Router.HandleFunc("/status", api.apiStatus).Methods("GET")
	api.Router.HandleFunc("/node/list", api.apiNodeList).Methods("GET")
	api.Router.HandleFunc("/node/status", api.apiNodeStatus).Methods("GET")
	api.Router.HandleFunc("/node/command", api.apiNodeCommand).Methods("POST")
	api.Router.HandleFunc("/node/packet", api.apiNodePacket).Methods("POST")
	api.Router.HandleFunc("/events/ws", api.apiEventStream).Methods("GET")
}

// startWebAPI starts a web-server with given parameters and logs the status.
// It may block forever and only returns if there is an error.
func startWebAPI(Backend *core.Backend, WebListen string, UseSSL bool, CertificateFile, CertificateKey string, Handler http.Handler, Info string, ReadTimeout, WriteTimeout time.Duration) {
	Backend.LogError("startWebAPI", "Start "+Info+" at '%s'\n", WebListen)

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12} // for security reasons disable TLS 1.0/1.1

	server := &http.Server{
		Addr:         WebListen,
		Handler:      Handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		TLSConfig:    tlsConfig,
	}

	if UseSSL {
		if err := server.ListenAndServeTLS(CertificateFile, CertificateKey); err != nil {
			Backend.LogError("startWebAPI", "Error listening on '%s': %v\n", WebListen, err)
		}
	} else {
		if err := server.ListenAndServe(); err != nil {
			Backend.LogError("startWebAPI", "Error listening on '%s': %v\n", WebListen, err)
		}
	}
}

// EncodeJSON encodes the data as JSON
func (api *WebapiInstance) EncodeJSON(w http.ResponseWriter, r *http.Request, data interface{}) (err error) {
	w.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(w).Encode(data); err != nil {
		api.Backend.LogError("EncodeJSON", "Error writing data for route '%s': %v\n", r.URL.Path, err)
	}
	return err
}

// DecodeJSON decodes input JSON data sent via POST. In case of error it
// automatically sends an error to the client.
func DecodeJSON(w http.ResponseWriter, r *http.Request, data interface{}) (err error) {
	if r.Body == nil {
		http.Error(w, "", http.StatusBadRequest)
		return errors.New("no data")
	}

	if err = json.NewDecoder(r.Body).Decode(data); err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return err
	}
	return nil
}

// authenticateMiddleware returns a middleware function to be used with
// mux.Router.Use(). It handles all authentication functionality.
func (api *WebapiInstance) authenticateMiddleware(APIKey uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyID, err := uuid.Parse(r.Header.Get("x-api-key"))
			if err != nil { // Invalid key format
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if keyID != APIKey {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
