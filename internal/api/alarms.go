package api

import "context"

// List returns one page of alarms across all originators.
func (s AlarmsService) List(ctx context.Context, params AlarmQueryParams) (*PageData[Alarm], error) {
	return listPage[Alarm](ctx, s, "getAllAlarms", params, nil)
}

// ListForEntity returns one page of alarms raised by a single entity.
func (s AlarmsService) ListForEntity(ctx context.Context, entity EntityID, params AlarmQueryParams) (*PageData[Alarm], error) {
	return listPage[Alarm](ctx, s, "getAlarms", params, map[string]any{
		"entityType": entity.EntityType,
		"entityId":   entity.ID,
	})
}

// Get retrieves an alarm by ID.
func (s AlarmsService) Get(ctx context.Context, id string) (*Alarm, error) {
	return getByID[Alarm](ctx, s, "getAlarmById", "alarmId", id)
}

// Ack acknowledges an alarm.
func (s AlarmsService) Ack(ctx context.Context, id string) (*Alarm, error) {
	return alarmAction(ctx, s, "ackAlarm", id)
}

// Clear clears an alarm.
func (s AlarmsService) Clear(ctx context.Context, id string) (*Alarm, error) {
	return alarmAction(ctx, s, "clearAlarm", id)
}

// Delete removes an alarm.
func (s AlarmsService) Delete(ctx context.Context, id string) error {
	return invokeInto(ctx, s, "deleteAlarm", Call{Params: map[string]any{"alarmId": id}}, nil)
}

// HighestSeverity returns the highest severity among the entity's alarms,
// or "" when it has none.
func (s AlarmsService) HighestSeverity(ctx context.Context, entity EntityID) (string, error) {
	res, err := s.Invoke(ctx, "getHighestAlarmSeverity", Call{Params: map[string]any{
		"entityType": entity.EntityType,
		"entityId":   entity.ID,
	}})
	if err != nil {
		return "", err
	}
	if severity, ok := res.Body.(string); ok {
		return severity, nil
	}
	return "", nil
}

// alarmAction runs ack or clear. Older servers answer 200 with no body,
// newer ones return the updated alarm.
func alarmAction(ctx context.Context, r Invoker, operation, id string) (*Alarm, error) {
	res, err := r.Invoke(ctx, operation, Call{Params: map[string]any{"alarmId": id}})
	if err != nil {
		return nil, err
	}
	if len(res.Raw) == 0 {
		return nil, nil
	}
	var out Alarm
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
