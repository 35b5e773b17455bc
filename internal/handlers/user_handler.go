package handlers

import (
	"errors"
	"net/http"

	"doefood/backend/internal/docstore"
	"doefood/backend/internal/models"
	"doefood/backend/internal/users"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	directory *users.Directory
}

func NewUserHandler(directory *users.Directory) *UserHandler {
	return &UserHandler{directory: directory}
}

// toUserResponse monta o documento devolvido pela API: {id, ...campos}, sem o token de redefinição.
func toUserResponse(rec docstore.Record[models.User]) gin.H {
	u := rec.Data
	resp := gin.H{}
	for k, v := range u.Extras {
		resp[k] = v
	}
	resp["id"] = rec.ID
	resp["nome"] = u.Nome
	resp["email"] = u.Email
	optional := map[string]string{
		"cnpj":     u.CNPJ,
		"tipo":     string(u.Tipo),
		"telefone": u.Telefone,
		"endereco": u.Endereco,
	}
	for k, v := range optional {
		if v != "" {
			resp[k] = v
		}
	}
	if !u.CriadoEm.IsZero() {
		resp["criadoEm"] = u.CriadoEm.Format(timeLayout)
	}
	if !u.AtualizadoEm.IsZero() {
		resp["atualizadoEm"] = u.AtualizadoEm.Format(timeLayout)
	}
	return resp
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Campos do corpo de criação que não são gravados no documento.
const fieldUID = "uid"

// CriarUsuario trata POST /usuarios. O campo opcional "uid" (conta no provedor de
// identidade) vira o ID do documento; demais campos desconhecidos são gravados como estão.
func (h *UserHandler) CriarUsuario(c *gin.Context) {
	var payload models.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Corpo da requisição inválido: " + err.Error()})
		return
	}

	uid, _ := payload.Extras[fieldUID].(string)
	delete(payload.Extras, fieldUID)
	delete(payload.Extras, "id")

	rec, err := h.directory.Create(c.Request.Context(), uid, payload)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidUser):
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
		case errors.Is(err, users.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"erro": "Usuário já existe"})
		default:
			internalError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(rec))
}

// ListarUsuarios trata GET /usuarios.
func (h *UserHandler) ListarUsuarios(c *gin.Context) {
	recs, err := h.directory.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	out := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toUserResponse(rec))
	}
	respondList(c, out)
}

// ObterUsuario trata GET /usuarios/:id.
func (h *UserHandler) ObterUsuario(c *gin.Context) {
	rec, err := h.directory.ByID(c.Request.Context(), c.Param("id"))
	h.respondUser(c, rec, err)
}

// BuscarPorEmail trata GET /usuarios/email/:email.
func (h *UserHandler) BuscarPorEmail(c *gin.Context) {
	rec, err := h.directory.ByEmail(c.Request.Context(), c.Param("email"))
	h.respondUser(c, rec, err)
}

// BuscarPorCNPJ trata GET /usuarios/cnpj/:cnpj.
func (h *UserHandler) BuscarPorCNPJ(c *gin.Context) {
	rec, err := h.directory.ByTaxID(c.Request.Context(), c.Param("cnpj"))
	h.respondUser(c, rec, err)
}

func (h *UserHandler) respondUser(c *gin.Context, rec docstore.Record[models.User], err error) {
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(rec))
}

// AtualizarUsuario trata PUT /usuarios/:id (atualização parcial).
func (h *UserHandler) AtualizarUsuario(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Nenhum campo para atualizar"})
		return
	}
	delete(fields, "id")

	if err := h.directory.Update(c.Request.Context(), c.Param("id"), fields); err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
		case errors.Is(err, users.ErrInvalidUser), errors.Is(err, users.ErrFieldReadOnly), errors.Is(err, users.ErrEmptyID):
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
		default:
			internalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário atualizado com sucesso"})
}

// ExcluirUsuario trata DELETE /usuarios/:id.
func (h *UserHandler) ExcluirUsuario(c *gin.Context) {
	if err := h.directory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
