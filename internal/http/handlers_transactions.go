package http

import (
	"errors"
	"fmt"
	"net/http"

	"fintrack/internal/log"
	"fintrack/internal/workset"
)

// handleTransactions renders the filtered transaction table.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	view := newTransactionsView(set, ParseFilter(r.URL.Query()))

	html, err := s.render("transactions.html", view)
	if err != nil {
		s.renderFailed(r.Context(), w, "transactions.html", err)
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

// handleSetCategory moves one transaction to another category by hand.
func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	if errResp := ParseFormOrFail(r); errResp != nil {
		errResp.Write(w)
		return
	}

	id := r.PathValue("id")
	category := sanitizeInput(r.Form.Get("category"))
	tx, err := set.SetCategory(id, category)
	if err != nil {
		s.writeSetError(w, r, err, id, log.OpUpdate)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Category changed",
		log.NewFields().WithTransaction(tx.ID, tx.Category).WithOperation(log.OpUpdate).ToSlice()...)

	NewHTMXResponse().
		TriggerTransactionsChanged(set.Len()).
		TriggerSuccessNotification(fmt.Sprintf("%s moved to %s", tx.Payee, tx.Category)).
		Write(w)
}

// handleResetCategory drops a manual override and reapplies the rules.
func (s *Server) handleResetCategory(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	id := r.PathValue("id")
	tx, err := set.ResetCategory(id)
	if err != nil {
		s.writeSetError(w, r, err, id, log.OpClassify)
		return
	}

	NewHTMXResponse().
		TriggerTransactionsChanged(set.Len()).
		TriggerSuccessNotification(fmt.Sprintf("%s is back to %s", tx.Payee, tx.Category)).
		Write(w)
}

// handleDeleteTransaction removes one transaction from the working set.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	id := r.PathValue("id")
	if err := set.Delete(id); err != nil {
		s.writeSetError(w, r, err, id, log.OpDelete)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted",
		log.NewFields().WithTransaction(id, "").WithOperation(log.OpDelete).ToSlice()...)

	NewHTMXResponse().
		TriggerTransactionsChanged(set.Len()).
		TriggerSuccessNotification("Transaction deleted").
		Write(w)
}

// handleReclassify reapplies the keyword rules. With force=true manual
// overrides are discarded too.
func (s *Server) handleReclassify(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	if errResp := ParseFormOrFail(r); errResp != nil {
		errResp.Write(w)
		return
	}

	force := r.Form.Get("force") == "true" || r.Form.Get("force") == "on"
	changed := set.Reclassify(force)

	log.FromContext(r.Context()).InfoContext(r.Context(), "Working set reclassified",
		log.FieldOperation, log.OpReclassify, log.FieldChanged, changed, "force", force)

	NewHTMXResponse().
		TriggerTransactionsChanged(set.Len()).
		TriggerSuccessNotification(fmt.Sprintf("%d transactions reclassified", changed)).
		Write(w)
}

// handleClear empties the working set.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	set.Clear()

	NewHTMXResponse().
		TriggerTransactionsChanged(0).
		TriggerSuccessNotification("All transactions cleared").
		Write(w)
}

func (s *Server) writeSetError(w http.ResponseWriter, r *http.Request, err error, id, op string) {
	var resp *HTMXResponseBuilder
	switch {
	case errors.Is(err, workset.ErrNotFound):
		resp = NotFoundError("Transaction not found")
	case errors.Is(err, workset.ErrUnknownCategory):
		resp = UnprocessableEntityError("Unknown category")
	case errors.Is(err, workset.ErrExcluded):
		resp = UnprocessableEntityError("Transfers cannot be recategorized")
	default:
		s.events.LogError(r.Context(), "Working set update failed", err, log.ComponentHTTP, op,
			log.NewFields().WithTransaction(id, ""))
		resp = InternalServerError("Update failed")
	}
	resp.TriggerErrorNotification(err.Error()).Write(w)
}
