package service

import (
	"sort"
	"strings"

	"bookkeeping-web/internal/models"
)

// SplitPath breaks a colon-delimited account path into trimmed segments.
// Empty segments are dropped, so "Assets::Cash " and "Assets:Cash" are the
// same path.
func SplitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, models.PathDelimiter) {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// JoinPath is the inverse of SplitPath.
func JoinPath(segments []string) string {
	return strings.Join(segments, models.PathDelimiter)
}

// ParentPath returns the path one level up, or "" for a root.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, models.PathDelimiter)
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// LeafName returns the last segment of a path.
func LeafName(path string) string {
	idx := strings.LastIndex(path, models.PathDelimiter)
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// InferAccountType maps a top-level path segment to an account type.
// Unrecognized roots default to asset.
func InferAccountType(topSegment string) models.AccountType {
	switch strings.ToLower(strings.TrimSpace(topSegment)) {
	case "assets", "asset":
		return models.AccountTypeAsset
	case "liabilities", "liability":
		return models.AccountTypeLiability
	case "revenue", "revenues", "income":
		return models.AccountTypeRevenue
	case "expenses", "expense":
		return models.AccountTypeExpense
	case "equity":
		return models.AccountTypeEquity
	default:
		return models.AccountTypeAsset
	}
}

// InferGroupType is the ledger-group adapter's looser heuristic: it matches
// substrings of human-entered group names. It exists only for the two-level
// Group/Ledger editing surface; ResolveOrCreate uses InferAccountType.
func InferGroupType(groupName string) (models.AccountType, string) {
	name := strings.ToLower(groupName)
	switch {
	case strings.Contains(name, "liab"):
		return models.AccountTypeLiability, "current"
	case strings.Contains(name, "revenue"), strings.Contains(name, "income"):
		return models.AccountTypeRevenue, "operating"
	case strings.Contains(name, "expense"):
		return models.AccountTypeExpense, "operating"
	case strings.Contains(name, "equity"), strings.Contains(name, "capital"):
		return models.AccountTypeEquity, "owner"
	default:
		return models.AccountTypeAsset, "current"
	}
}

// codeRange returns the numeric code block [lo, hi) conventionally used for
// an account type (1000s assets, 2000s liabilities, and so on).
func codeRange(accountType models.AccountType) (lo, hi int64) {
	switch accountType {
	case models.AccountTypeAsset:
		return 1000, 2000
	case models.AccountTypeLiability:
		return 2000, 3000
	case models.AccountTypeEquity:
		return 3000, 4000
	case models.AccountTypeRevenue:
		return 4000, 5000
	case models.AccountTypeExpense:
		return 5000, 6000
	default:
		return 9000, 10000
	}
}

// BuildHierarchy assembles a flat account list into parent -> children trees.
// Roots and children keep code order.
func BuildHierarchy(accounts []models.Account) []*models.AccountNode {
	nodes := make(map[string]*models.AccountNode, len(accounts))
	for i := range accounts {
		nodes[accounts[i].AccountCode] = &models.AccountNode{Account: accounts[i]}
	}

	var roots []*models.AccountNode
	for i := range accounts {
		node := nodes[accounts[i].AccountCode]
		if accounts[i].ParentCode != nil {
			if parent, ok := nodes[*accounts[i].ParentCode]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortChildren func(n *models.AccountNode)
	sortChildren = func(n *models.AccountNode) {
		sort.Slice(n.Children, func(i, j int) bool {
			return n.Children[i].AccountCode < n.Children[j].AccountCode
		})
		for _, c := range n.Children {
			sortChildren(c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].AccountCode < roots[j].AccountCode })
	for _, r := range roots {
		sortChildren(r)
	}
	return roots
}
