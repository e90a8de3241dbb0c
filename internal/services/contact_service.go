package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rahulwaghole14/mandap/domain"
)

// ContactsView is the contact screen: displayed contacts and the selection
type ContactsView struct {
	Contacts    []domain.Contact `json:"contacts"`
	Selected    domain.Selection `json:"selected"`
	AllSelected bool             `json:"all_selected"`
	Total       int              `json:"total"`
	SelectedN   int              `json:"selected_count"`
}

func newContactsView(st *domain.SelectionState) *ContactsView {
	return &ContactsView{
		Contacts:    st.Displayed,
		Selected:    st.Selected,
		AllSelected: st.Selected.AllSelected(st.Displayed),
		Total:       len(st.Displayed),
		SelectedN:   len(st.Selected),
	}
}

// ContactService derives recipients from the directory and keeps each
// session's selection.
type ContactService struct {
	client     domain.DirectoryClient
	selections domain.SelectionRepository
	gate       sessionRevoker
}

// NewContactService creates a contact service
func NewContactService(client domain.DirectoryClient, selections domain.SelectionRepository, gate sessionRevoker) *ContactService {
	return &ContactService{client: client, selections: selections, gate: gate}
}

// Contacts refreshes the displayed list. The existing selection is kept.
func (s *ContactService) Contacts(ctx context.Context, session *domain.Session, filter domain.CompanyFilter) (*ContactsView, error) {
	companies, err := s.client.ListCompanies(ctx, session.UpstreamToken, filter)
	if err != nil {
		return nil, upstreamErr(ctx, s.gate, session, fmt.Errorf("list companies: %w", err))
	}
	st, err := s.selections.Load(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	st.Displayed = domain.DeriveContacts(companies)
	if st.Selected == nil {
		st.Selected = domain.Selection{}
	}
	if err := s.selections.Save(ctx, session.ID, st); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}
	return newContactsView(st), nil
}

// Toggle flips one phone in the selection
func (s *ContactService) Toggle(ctx context.Context, session *domain.Session, phone string) (*ContactsView, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, domain.NewValidationError("phone", "phone is required")
	}
	return s.update(ctx, session, func(st *domain.SelectionState) {
		st.Selected = st.Selected.Toggle(phone)
	})
}

// ToggleAll selects every displayed contact, or clears the selection when
// it already has as many entries as are displayed.
func (s *ContactService) ToggleAll(ctx context.Context, session *domain.Session) (*ContactsView, error) {
	return s.update(ctx, session, func(st *domain.SelectionState) {
		st.Selected = st.Selected.ToggleAll(st.Displayed)
	})
}

// Selected returns the current selection in selection order
func (s *ContactService) Selected(ctx context.Context, session *domain.Session) (domain.Selection, error) {
	st, err := s.selections.Load(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	return st.Selected, nil
}

// Clear drops the session's contact state
func (s *ContactService) Clear(ctx context.Context, sessionID string) error {
	return s.selections.Delete(ctx, sessionID)
}

func (s *ContactService) update(ctx context.Context, session *domain.Session, fn func(*domain.SelectionState)) (*ContactsView, error) {
	st, err := s.selections.Load(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	fn(st)
	if err := s.selections.Save(ctx, session.ID, st); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}
	return newContactsView(st), nil
}
