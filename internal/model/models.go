package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Customer{},
		&Owner{},
		&Admin{},
		&Dorm{},
		&DormImage{},
		&Room{},
		&BillRecord{},
		&PushSubscription{},
	}
}
