package repository

import "service-booking/internal/domain/money"

func minorPtr(m *money.Money) *int64 {
	if m == nil {
		return nil
	}
	v := m.Minor()
	return &v
}
