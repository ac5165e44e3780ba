package http

import (
	"net/http"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/pkg/httpx"
)

// AccountsHandler serves the account endpoints.
type AccountsHandler struct {
	Accounts *service.AccountService
	Report   Reporter
}

const accountsSource = "http/accounts"

// HandleList handles GET /v1/accounts
//
//	@Summary		List accounts
//	@Description	Returns accounts matching every supplied filter. Results are cached per filter for the configured TTL and are not refreshed by writes; force=true reads the store directly.
//	@Tags			Accounts
//	@Produce		json
//	@Param			cid		query		string	false	"Owning client id"
//	@Param			number	query		string	false	"Account number"
//	@Param			type	query		string	false	"Account type"
//	@Param			status	query		string	false	"Account status"
//	@Param			limit	query		int		false	"Maximum number of accounts (default 10)"
//	@Param			force	query		bool	false	"Bypass the cache"
//	@Success		200		{array}		domain.Account
//	@Failure		400		{object}	httpx.Message
//	@Failure		500		{object}	httpx.Message	"message, ref"
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q, err := accountQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}

	accts, err := h.Accounts.List(r.Context(), q)
	if err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accts)
}

// HandleCreate handles POST /v1/accounts
//
//	@Summary		Open account
//	@Description	Opens one account for an existing client. The number is generated.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.NewAccount	true	"Owning client and account fields"
//	@Success		200		{object}	domain.Account
//	@Failure		400		{object}	httpx.Message
//	@Failure		404		{object}	httpx.Message	"client not found"
//	@Failure		500		{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.NewAccount
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}

	a, err := h.Accounts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

// HandleUpdate handles PATCH /v1/accounts/{id}
//
//	@Summary		Update account
//	@Description	Sets type and status. Number and owning client cannot change.
//	@Tags			Accounts
//	@Accept			json
//	@Param			id		path	string				true	"Account id"
//	@Param			request	body	domain.AccountPatch	true	"Fields to set"
//	@Success		204
//	@Failure		404	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id} [patch].
func (h *AccountsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var p domain.AccountPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}

	if _, err := h.Accounts.Update(r.Context(), r.PathValue("id"), p); err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}
	httpx.NoContent(w)
}

// HandleDelete handles DELETE /v1/accounts/{id}
//
//	@Summary		Delete account
//	@Tags			Accounts
//	@Param			id	path	string	true	"Account id"
//	@Success		204
//	@Failure		404	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message	"message, ref"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id} [delete].
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.Report, accountsSource, err)
		return
	}
	httpx.NoContent(w)
}
