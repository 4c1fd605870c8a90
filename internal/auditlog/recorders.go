package auditlog

import "context"

// Product carries the product fields captured by product events.
type Product struct {
	ID          string
	Name        string
	Category    string
	Supplier    string
	BatchNumber string
	TxHash      string
}

func (p Product) details() Details {
	d := Details{
		"productId":   p.ID,
		"productName": p.Name,
		"category":    p.Category,
		"supplier":    p.Supplier,
		"batchNumber": p.BatchNumber,
	}
	if p.TxHash != "" {
		d["txHash"] = p.TxHash
	}
	return d
}

// ProductAdded records a certified product creation.
func (s *Store) ProductAdded(ctx context.Context, actor Actor, p Product) Record {
	return s.Record(ctx, ActionProductAdded, actor, p.details(), SeverityHigh)
}

// ProductViewed records a product lookup.
func (s *Store) ProductViewed(ctx context.Context, actor Actor, p Product) Record {
	return s.Record(ctx, ActionProductViewed, actor, p.details(), SeverityLow)
}

// ProductExported records a product or log export.
func (s *Store) ProductExported(ctx context.Context, actor Actor, format Format, target string) Record {
	return s.Record(ctx, ActionProductExported, actor, Details{"format": string(format), "target": target}, SeverityMedium)
}

// UserLogin records a wallet connection.
func (s *Store) UserLogin(ctx context.Context, actor Actor, method string) Record {
	if method == "" {
		method = "wallet"
	}
	return s.Record(ctx, ActionUserLogin, actor, Details{"loginMethod": method}, SeverityMedium)
}

// UserLogout records a wallet disconnection.
func (s *Store) UserLogout(ctx context.Context, actor Actor) Record {
	return s.Record(ctx, ActionUserLogout, actor, Details{}, SeverityLow)
}

// AdminChanged records an admin role grant (add) or revocation (remove).
func (s *Store) AdminChanged(ctx context.Context, actor Actor, change, targetUser string) Record {
	action := ActionAdminRemoved
	if change == "add" {
		action = ActionAdminAdded
	}
	return s.Record(ctx, action, actor, Details{"targetUser": targetUser, "action": change}, SeverityCritical)
}

// PermissionDenied records a role-gated refusal.
func (s *Store) PermissionDenied(ctx context.Context, actor Actor, attemptedAction string) Record {
	return s.Record(ctx, ActionPermissionDenied, actor, Details{"attemptedAction": attemptedAction}, SeverityHigh)
}

// SystemError records an unexpected failure.
func (s *Store) SystemError(ctx context.Context, actor Actor, err error, where string) Record {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return s.Record(ctx, ActionSystemError, actor, Details{"error": msg, "context": where}, SeverityCritical)
}

// FilterApplied records a filter change in a listing.
func (s *Store) FilterApplied(ctx context.Context, actor Actor, filter map[string]string) Record {
	d := make(Details, len(filter))
	for k, v := range filter {
		d[k] = v
	}
	return s.Record(ctx, ActionFilterApplied, actor, d, SeverityLow)
}

// SearchApplied records a free-text search and its result count.
func (s *Store) SearchApplied(ctx context.Context, actor Actor, term string, results int) Record {
	return s.Record(ctx, ActionSearchApplied, actor, Details{"searchTerm": term, "resultsCount": results}, SeverityLow)
}

// SortApplied records a sort order change.
func (s *Store) SortApplied(ctx context.Context, actor Actor, sortBy string) Record {
	return s.Record(ctx, ActionSortApplied, actor, Details{"sortBy": sortBy}, SeverityLow)
}
