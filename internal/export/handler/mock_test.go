package handler

import (
	"context"

	"github.com/Meesho/BharatMLStack/company-export/internal/externalcall"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/stretchr/testify/mock"
)

// MockRegistryClient is a mock for externalcall.RegistryClient
type MockRegistryClient struct {
	mock.Mock
}

func (m *MockRegistryClient) FetchToken(ctx context.Context, creds externalcall.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockRegistryClient) SearchPage(ctx context.Context, query externalcall.SearchQuery) (*externalcall.SearchPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*externalcall.SearchPage), args.Error(1)
}

func company(id string) workbook.Record {
	return *workbook.NewRecord().Set("id", id).Set("companyName", "Azienda "+id)
}

func page(raw string, ids ...string) *externalcall.SearchPage {
	records := make([]workbook.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, company(id))
	}
	return &externalcall.SearchPage{Records: records, Raw: []byte(raw)}
}

func onPage(n int) interface{} {
	return mock.MatchedBy(func(q externalcall.SearchQuery) bool { return q.Page == n })
}
