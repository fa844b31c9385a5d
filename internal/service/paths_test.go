package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/models"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"simple", "Assets:Cash", []string{"Assets", "Cash"}},
		{"single segment", "Assets", []string{"Assets"}},
		{"empty segments dropped", "Assets::Cash", []string{"Assets", "Cash"}},
		{"whitespace trimmed", " Assets : Cash ", []string{"Assets", "Cash"}},
		{"empty path", "", nil},
		{"only delimiters", ":::", nil},
		{"deep path", "Assets:Bank:Checking:Primary", []string{"Assets", "Bank", "Checking", "Primary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.path))
		})
	}
}

func TestJoinPathRoundTrip(t *testing.T) {
	path := "Assets:Bank:Checking"
	assert.Equal(t, path, JoinPath(SplitPath(path)))
}

func TestParentPath(t *testing.T) {
	assert.Equal(t, "Assets:Bank", ParentPath("Assets:Bank:Checking"))
	assert.Equal(t, "Assets", ParentPath("Assets:Cash"))
	assert.Equal(t, "", ParentPath("Assets"))
}

func TestLeafName(t *testing.T) {
	assert.Equal(t, "Checking", LeafName("Assets:Bank:Checking"))
	assert.Equal(t, "Assets", LeafName("Assets"))
}

func TestInferAccountType(t *testing.T) {
	tests := []struct {
		segment string
		want    models.AccountType
	}{
		{"Assets", models.AccountTypeAsset},
		{"asset", models.AccountTypeAsset},
		{"Liabilities", models.AccountTypeLiability},
		{"liability", models.AccountTypeLiability},
		{"Revenue", models.AccountTypeRevenue},
		{"Income", models.AccountTypeRevenue},
		{"Expenses", models.AccountTypeExpense},
		{"Equity", models.AccountTypeEquity},
		{"Petty Cash", models.AccountTypeAsset},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferAccountType(tt.segment), "segment %q", tt.segment)
	}
}

func TestInferGroupType(t *testing.T) {
	tests := []struct {
		group       string
		wantType    models.AccountType
		wantSubtype string
	}{
		{"Current Liabilities", models.AccountTypeLiability, "current"},
		{"Sales Revenue", models.AccountTypeRevenue, "operating"},
		{"Other Income", models.AccountTypeRevenue, "operating"},
		{"Operating Expenses", models.AccountTypeExpense, "operating"},
		{"Owner Capital", models.AccountTypeEquity, "owner"},
		{"Fixed Assets", models.AccountTypeAsset, "current"},
		{"Sundry Debtors", models.AccountTypeAsset, "current"},
	}
	for _, tt := range tests {
		gotType, gotSubtype := InferGroupType(tt.group)
		assert.Equal(t, tt.wantType, gotType, "group %q", tt.group)
		assert.Equal(t, tt.wantSubtype, gotSubtype, "group %q", tt.group)
	}
}

func TestBuildHierarchy(t *testing.T) {
	parent := "1000"
	accounts := []models.Account{
		{AccountCode: "1002", AccountName: "Bank", Path: "Assets:Bank", ParentCode: &parent},
		{AccountCode: "1000", AccountName: "Assets", Path: "Assets"},
		{AccountCode: "1001", AccountName: "Cash", Path: "Assets:Cash", ParentCode: &parent},
		{AccountCode: "4000", AccountName: "Revenue", Path: "Revenue"},
	}

	roots := BuildHierarchy(accounts)
	require.Len(t, roots, 2)

	assert.Equal(t, "1000", roots[0].AccountCode)
	assert.Equal(t, "4000", roots[1].AccountCode)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "1001", roots[0].Children[0].AccountCode)
	assert.Equal(t, "1002", roots[0].Children[1].AccountCode)
}

func TestBuildHierarchyOrphanBecomesRoot(t *testing.T) {
	missing := "9999"
	accounts := []models.Account{
		{AccountCode: "1001", AccountName: "Cash", Path: "Assets:Cash", ParentCode: &missing},
	}
	roots := BuildHierarchy(accounts)
	require.Len(t, roots, 1)
	assert.Equal(t, "1001", roots[0].AccountCode)
}
