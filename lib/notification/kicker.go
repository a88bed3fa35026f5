package notification

// Kicker будит обработчик outbox после фиксации транзакции
type Kicker interface {
	Kick()
}

type NopKicker struct{}

func (NopKicker) Kick() {}
