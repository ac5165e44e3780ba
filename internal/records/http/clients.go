package http

import (
	"net/http"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/pkg/httpx"
	"github.com/aussiebroadwan/records/pkg/slogx"
)

// ClientsHandler serves the client endpoints.
type ClientsHandler struct {
	Clients    *service.ClientService
	Onboarding *service.Onboarding
	Report     Reporter
}

const clientsSource = "http/clients"

// HandleList handles GET /v1/clients
//
//	@Summary		List clients
//	@Description	Returns clients matching every supplied filter. minage and maxage select by date of birth; clients without one never match an age filter.
//	@Tags			Clients
//	@Produce		json
//	@Param			name		query		string	false	"Exact name"
//	@Param			address		query		string	false	"Exact address"
//	@Param			postalCode	query		string	false	"Exact postal code"
//	@Param			phone		query		string	false	"Exact phone"
//	@Param			email		query		string	false	"Exact email"
//	@Param			minage		query		int		false	"Minimum age in whole years"
//	@Param			maxage		query		int		false	"Maximum age in whole years"
//	@Param			limit		query		int		false	"Maximum number of clients"
//	@Success		200			{array}		domain.Client
//	@Failure		400			{object}	httpx.Message
//	@Failure		500			{object}	httpx.Message	"message, ref"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q, err := clientQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}

	clients, err := h.Clients.List(r.Context(), q)
	if err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clients)
}

// HandleCreate handles POST /v1/clients
//
//	@Summary		Create client
//	@Description	Creates a client without accounts and returns its id.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.Client	true	"Client fields; id and timestamps are ignored"
//	@Success		200		{string}	string			"client id"
//	@Failure		400		{object}	httpx.Message
//	@Failure		500		{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.Client
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}

	c, err := h.Clients.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c.ID)
}

// HandleCreateWithAccounts handles POST /v1/clients/accounts
//
//	@Summary		Create client with accounts
//	@Description	Creates a client and its initial accounts. Account numbers are generated. If the accounts cannot be written the client is removed again and 500 is returned.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.NewClient	true	"Client fields plus accounts"
//	@Success		200		{string}	string				"client id"
//	@Failure		400		{object}	httpx.Message
//	@Failure		500		{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/clients/accounts [post].
func (h *ClientsHandler) HandleCreateWithAccounts(w http.ResponseWriter, r *http.Request) {
	var form domain.NewClient
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}

	ctx := slogx.WithSource(r.Context(), "service/onboarding")
	id, err := h.Onboarding.CreateClientWithAccounts(ctx, form)
	if err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, id)
}

// HandleByAccount handles GET /v1/clients/by-account/{number}
//
//	@Summary		Find client by account number
//	@Tags			Clients
//	@Produce		json
//	@Param			number	path		string	true	"Account number"
//	@Success		200		{object}	domain.Client
//	@Failure		404		{object}	httpx.Message	"account not found, or client not found"
//	@Failure		500		{object}	httpx.Message	"message, ref"
//	@Router			/v1/clients/by-account/{number} [get].
func (h *ClientsHandler) HandleByAccount(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.ByAccountNumber(r.Context(), r.PathValue("number"))
	if err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// HandleGet handles GET /v1/clients/{id}
//
//	@Summary		Get client
//	@Tags			Clients
//	@Produce		json
//	@Param			id	path		string	true	"Client id"
//	@Success		200	{object}	domain.Client
//	@Failure		404	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message	"message, ref"
//	@Router			/v1/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// HandleUpdate handles PATCH /v1/clients/{id}
//
//	@Summary		Update client
//	@Description	Sets the supplied fields. An empty string clears a field.
//	@Tags			Clients
//	@Accept			json
//	@Param			id		path	string				true	"Client id"
//	@Param			request	body	domain.ClientPatch	true	"Fields to set"
//	@Success		204
//	@Failure		400	{object}	httpx.Message
//	@Failure		404	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/clients/{id} [patch].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var p domain.ClientPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}

	if _, err := h.Clients.Update(r.Context(), r.PathValue("id"), p); err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	httpx.NoContent(w)
}

// HandleDelete handles DELETE /v1/clients/{id}
//
//	@Summary		Delete client
//	@Description	Deletes the client only. Its accounts remain and can still be listed.
//	@Tags			Clients
//	@Param			id	path	string	true	"Client id"
//	@Success		204
//	@Failure		404	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.Clients.Delete(ctx, id); err != nil {
		writeError(w, r, h.Report, clientsSource, err)
		return
	}
	slogx.FromContext(ctx).Info("client deleted", "client_id", id)
	httpx.NoContent(w)
}
