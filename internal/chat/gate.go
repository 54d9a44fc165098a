package chat

import (
	"context"
	"log/slog"

	"github.com/thereayou/burnchat/internal/models"
	"github.com/thereayou/burnchat/internal/store"
)

// Membership — результат прохождения протокола входа.
type Membership struct {
	Token   string
	Members []string
	// Joined — токен добавлен этим вызовом, а не найден в наборе.
	Joined bool
}

// MembershipGate проверяет и выдаёт членство в комнате.
// Authenticate вызывается на каждом аутентифицированном запросе,
// горячий путь — повторный вход уже принятого токена.
type MembershipGate struct {
	store store.KeyValueStore
	limit int
	log   *slog.Logger
}

func NewMembershipGate(kv store.KeyValueStore, limit int, log *slog.Logger) *MembershipGate {
	if limit <= 0 {
		limit = MaxRoomMembers
	}
	return &MembershipGate{store: kv, limit: limit, log: log}
}

// Authenticate выполняет вход в комнату: уже принятый токен проходит
// без мутаций, новый дописывается в набор, если есть место. Проверка
// лимита и дозапись выполняются одной атомарной операцией хранилища,
// поэтому конкурентные входы не теряют токены и не пробивают лимит.
// Нечитаемый набор токенов восстанавливается как пустой.
func (g *MembershipGate) Authenticate(ctx context.Context, roomID, token string) (Membership, error) {
	if roomID == "" || token == "" {
		return Membership{}, ErrMissingCredentials
	}

	res, err := g.store.TryAdmit(ctx, models.MetaKey(roomID), connectedField, token, g.limit)
	if err != nil {
		return Membership{}, err
	}
	if res.Malformed {
		g.log.Warn("token set was unreadable, recovered as empty", "room", roomID)
	}

	switch res.Status {
	case store.AdmitNotFound:
		return Membership{}, ErrRoomNotFound
	case store.AdmitFull:
		g.log.Info("join rejected, room is full", "room", roomID)
		return Membership{}, ErrRoomFull
	case store.AdmitAdded:
		g.log.Info("token admitted", "room", roomID, "members", len(res.Tokens))
	}

	return Membership{
		Token:   token,
		Members: res.Tokens,
		Joined:  res.Status == store.AdmitAdded,
	}, nil
}
