// Package mutation validates and submits user create/update/delete requests
// and reports a structured outcome instead of returning errors.
package mutation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/RezaEskandarii/recordgrid/custom_errors"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/go-playground/validator/v10"
)

const (
	MsgRequiredFields = "Tous les champs obligatoires doivent être remplis"
	MsgInvalidEmail   = "L'email doit être valide"
	MsgEmptyUpdate    = "Aucune donnée à mettre à jour"

	MsgCreated     = "Utilisateur créé avec succès"
	MsgUpdated     = "Utilisateur mis à jour avec succès"
	MsgDeleted     = "Utilisateur supprimé avec succès"
	MsgActivated   = "Utilisateur activé avec succès"
	MsgDeactivated = "Utilisateur désactivé avec succès"

	msgCreateFailed = "Erreur lors de la création"
	msgUpdateFailed = "Erreur lors de la mise à jour"
	msgDeleteFailed = "Erreur lors de la suppression"
	msgToggleFailed = "Erreur lors du changement de statut"
)

// Operation names used for logging and metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpToggle = "toggle_status"
)

// Writer submits mutations to the remote collection.
type Writer interface {
	Create(ctx context.Context, body any) error
	Update(ctx context.Context, id string, body any) error
	Delete(ctx context.Context, id string) error
}

// Invalidator drops cached pages of a list route.
type Invalidator interface {
	Invalidate(ctx context.Context, route string) error
}

type Recorder interface {
	ObserveMutation(op string, success bool)
}

// UserFields is the create form. TypeUser is multi-select; only its first
// element is sent.
type UserFields struct {
	Username  string   `validate:"required"`
	Email     string   `validate:"required,contains=@"`
	FirstName string   `validate:"required"`
	LastName  string   `validate:"required"`
	Telephone string
	Active    bool
	TypeUser  []string
}

// UserPatch is a partial update. Nil pointers and empty strings are never sent.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Telephone *string
	Active    *bool
	TypeUser  []string
}

type Option func(*Gateway)

func WithInvalidator(inv Invalidator) Option {
	return func(g *Gateway) { g.invalidator = inv }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

// WithListRoute sets the route whose cached pages are invalidated after a
// successful mutation.
func WithListRoute(route string) Option {
	return func(g *Gateway) { g.listRoute = route }
}

type Gateway struct {
	writer      Writer
	invalidator Invalidator
	recorder    Recorder
	listRoute   string
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewGateway(writer Writer, opts ...Option) *Gateway {
	g := &Gateway{
		writer:    writer,
		listRoute: "/api/users/paginated",
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Create(ctx context.Context, fields UserFields) types.MutationOutcome {
	if err := g.validateFields(fields); err != nil {
		return g.fail(OpCreate, err, msgCreateFailed)
	}

	body := types.CreateUser{
		Username:  fields.Username,
		Email:     fields.Email,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Active:    fields.Active,
		TypeUser:  types.UserTypes(fields.TypeUser).First(),
		Telephone: fields.Telephone,
	}
	if err := g.writer.Create(ctx, body); err != nil {
		return g.fail(OpCreate, err, msgCreateFailed)
	}
	return g.succeed(ctx, OpCreate, MsgCreated)
}

func (g *Gateway) Update(ctx context.Context, id string, patch UserPatch) types.MutationOutcome {
	body := patch.clean()
	if len(body) == 0 {
		return g.fail(OpUpdate, errors.New(MsgEmptyUpdate), msgUpdateFailed)
	}
	if email, ok := body["email"].(string); ok {
		if err := g.validate.Var(email, "contains=@"); err != nil {
			return g.fail(OpUpdate, errors.New(MsgInvalidEmail), msgUpdateFailed)
		}
	}

	if err := g.writer.Update(ctx, id, body); err != nil {
		return g.fail(OpUpdate, err, msgUpdateFailed)
	}
	return g.succeed(ctx, OpUpdate, MsgUpdated)
}

// Delete is irreversible.
func (g *Gateway) Delete(ctx context.Context, id string) types.MutationOutcome {
	if err := g.writer.Delete(ctx, id); err != nil {
		return g.fail(OpDelete, err, msgDeleteFailed)
	}
	return g.succeed(ctx, OpDelete, MsgDeleted)
}

// ToggleStatus sends only the flipped active flag.
func (g *Gateway) ToggleStatus(ctx context.Context, id string, current bool) types.MutationOutcome {
	if err := g.writer.Update(ctx, id, map[string]any{"active": !current}); err != nil {
		return g.fail(OpToggle, err, msgToggleFailed)
	}
	if current {
		return g.succeed(ctx, OpToggle, MsgDeactivated)
	}
	return g.succeed(ctx, OpToggle, MsgActivated)
}

func (g *Gateway) validateFields(fields UserFields) error {
	err := g.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &custom_errors.ValidationError{}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			verr.AddField(fe.Field(), MsgRequiredFields)
			return verr
		}
	}
	verr.AddField(fieldErrs[0].Field(), MsgInvalidEmail)
	return verr.Err()
}

func (g *Gateway) succeed(ctx context.Context, op, message string) types.MutationOutcome {
	if g.invalidator != nil {
		if err := g.invalidator.Invalidate(ctx, g.listRoute); err != nil {
			g.logger.Warn("cache invalidation failed", "op", op, "route", g.listRoute, "error", err)
		}
	}
	if g.recorder != nil {
		g.recorder.ObserveMutation(op, true)
	}
	g.logger.Info("mutation succeeded", "op", op)
	return types.Succeeded(message)
}

func (g *Gateway) fail(op string, err error, fallback string) types.MutationOutcome {
	if g.recorder != nil {
		g.recorder.ObserveMutation(op, false)
	}
	g.logger.Warn("mutation failed", "op", op, "error", err)

	var verr *custom_errors.ValidationError
	if errors.As(err, &verr) {
		return types.Failed(verr.First())
	}
	message := err.Error()
	if message == "" {
		message = fallback
	}
	return types.Failed(message)
}

func (p UserPatch) clean() map[string]any {
	body := map[string]any{}
	put := func(key string, v *string) {
		if v != nil && *v != "" {
			body[key] = *v
		}
	}
	put("username", p.Username)
	put("email", p.Email)
	put("firstName", p.FirstName)
	put("lastName", p.LastName)
	put("telephone", p.Telephone)
	if p.Active != nil {
		body["active"] = *p.Active
	}
	if first := types.UserTypes(p.TypeUser).First(); first != "" {
		body["typeUser"] = first
	}
	return body
}
