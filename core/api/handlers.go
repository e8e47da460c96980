package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/core/registry"
)

// retryAfterSeconds is the polling hint sent while a certificate is acquired.
const retryAfterSeconds = "10"

// maxBodySize bounds the POST /v1/certificate payload.
const maxBodySize = 64 << 10

type taskResponse struct {
	Running bool `json:"running"`
}

type domainEntry struct {
	Domain    string    `json:"domain"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	AttemptID string    `json:"attempt_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type domainsResponse struct {
	Domains []domainEntry `json:"domains"`
}

type certificateResponse struct {
	CertificateBase64 string `json:"certificate_base64"`
}

type keyResponse struct {
	KeyBase64 string `json:"key_base64"`
}

type createRequest struct {
	Domain string `json:"domain"`
	DNS    string `json:"dns"`
}

func (a *API) getTask(w http.ResponseWriter, _ *http.Request) error {
	return jsonOK(w, taskResponse{Running: a.task.Running()})
}

func (a *API) listDomains(w http.ResponseWriter, _ *http.Request) error {
	snapshot := a.statuses.Snapshot()
	resp := domainsResponse{Domains: make([]domainEntry, 0, len(snapshot))}
	for _, e := range snapshot {
		resp.Domains = append(resp.Domains, domainEntry{
			Domain:    e.Domain,
			Status:    string(e.Status.State),
			Reason:    e.Status.Reason,
			AttemptID: e.Status.AttemptID,
			UpdatedAt: e.Status.UpdatedAt,
		})
	}
	return jsonOK(w, resp)
}

func (a *API) getCertificate(w http.ResponseWriter, r *http.Request) error {
	domain := strings.TrimSpace(mux.Vars(r)["domain"])
	lookup, err := lookupFromQuery(r)
	if err != nil {
		return err
	}

	st, ok := a.statuses.Get(domain)
	if !ok {
		return ErrNotFound.WithMessage("Certificate for this domain is not managed or found.")
	}

	switch st.State {
	case registry.StateAcquiring:
		w.Header().Set("Retry-After", retryAfterSeconds)
		return jsonWithStatus(w, accepted{
			Status:    "Accepted",
			Message:   "Certificate acquisition is in progress.",
			AttemptID: st.AttemptID,
		}, http.StatusAccepted)
	case registry.StateFailed:
		return ErrInternalServerError.WithMessage("Certificate acquisition failed: " + st.Reason)
	}

	data, err := a.certs.ReadCertificate(domain, lookup)
	if err != nil {
		return ErrInternalServerError.
			WithMessage("Certificate file is missing despite being marked as ready.").
			WithError(err)
	}
	return jsonOK(w, certificateResponse{CertificateBase64: base64.StdEncoding.EncodeToString(data)})
}

func (a *API) getCertificateKey(w http.ResponseWriter, r *http.Request) error {
	domain := strings.TrimSpace(mux.Vars(r)["domain"])
	lookup, err := lookupFromQuery(r)
	if err != nil {
		return err
	}

	if st, ok := a.statuses.Get(domain); !ok || st.State != registry.StateReady {
		return ErrNotFound.WithMessage("Certificate is not ready or does not exist.")
	}

	data, err := a.certs.ReadKey(domain, lookup)
	if err != nil {
		return ErrInternalServerError.WithMessage("Key file is missing.").WithError(err)
	}
	return jsonOK(w, keyResponse{KeyBase64: base64.StdEncoding.EncodeToString(data)})
}

func (a *API) createCertificate(w http.ResponseWriter, r *http.Request) error {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		return ErrBadRequest.WithMessage("Invalid JSON body.").WithError(err)
	}

	attempt, err := a.acquirer.Submit(r.Context(), req.Domain, req.DNS)
	if err != nil {
		return submitError(err)
	}

	return jsonWithStatus(w, accepted{
		Status:    "Accepted",
		Message:   "Certificate acquisition process started.",
		AttemptID: attempt,
	}, http.StatusAccepted)
}

// lookupFromQuery parses ?wildcard. Missing or empty means false.
func lookupFromQuery(r *http.Request) (certstore.Lookup, error) {
	raw := r.URL.Query().Get("wildcard")
	if raw == "" {
		return certstore.PreferWildcard, nil
	}

	wildcard, err := strconv.ParseBool(raw)
	if err != nil {
		return certstore.PreferWildcard, ErrBadRequest.WithMessage(fmt.Sprintf("Invalid wildcard value %q.", raw))
	}
	if wildcard {
		return certstore.WildcardOnly, nil
	}
	return certstore.PreferWildcard, nil
}

