package handlers

import (
	"errors"
	"net/http"

	"doefood/backend/internal/docstore"
	"doefood/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const msgDonationNotFound = "Doação não encontrada"

// DonationHandler expõe o CRUD de doações. Os documentos não têm esquema fixo.
type DonationHandler struct {
	store docstore.Store[models.Donation]
}

func NewDonationHandler(store docstore.Store[models.Donation]) *DonationHandler {
	return &DonationHandler{store: store}
}

func donationResponse(rec docstore.Record[models.Donation]) gin.H {
	out := gin.H{}
	for k, v := range rec.Data {
		out[k] = v
	}
	out["id"] = rec.ID
	return out
}

func donationList(recs []docstore.Record[models.Donation]) []gin.H {
	out := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		out = append(out, donationResponse(rec))
	}
	return out
}

// CriarDoacao trata POST /doacoes.
func (h *DonationHandler) CriarDoacao(c *gin.Context) {
	var data models.Donation
	if err := c.ShouldBindJSON(&data); err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Corpo da requisição inválido"})
		return
	}
	delete(data, "id")

	rec, err := h.store.Create(c.Request.Context(), "", data)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, donationResponse(rec))
}

// ObterDoacao trata GET /doacoes/:id.
func (h *DonationHandler) ObterDoacao(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"mensagem": msgDonationNotFound})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, donationResponse(rec))
}

// ListarDoacoes trata GET /doacoes.
func (h *DonationHandler) ListarDoacoes(c *gin.Context) {
	recs, err := h.store.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	respondList(c, donationList(recs))
}

// BuscarPorDoador trata GET /doacoes/doador/:id.
func (h *DonationHandler) BuscarPorDoador(c *gin.Context) {
	h.findBy(c, models.DonationFieldDonorID)
}

// BuscarPorBeneficiario trata GET /doacoes/beneficiario/:id.
func (h *DonationHandler) BuscarPorBeneficiario(c *gin.Context) {
	h.findBy(c, models.DonationFieldBeneficiaryID)
}

func (h *DonationHandler) findBy(c *gin.Context, field string) {
	recs, err := h.store.FindBy(c.Request.Context(), field, c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	respondList(c, donationList(recs))
}

// AtualizarDoacao trata PATCH /doacoes/:id e devolve o documento atualizado.
func (h *DonationHandler) AtualizarDoacao(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Nenhum campo para atualizar"})
		return
	}
	delete(fields, "id")

	id := c.Param("id")
	if err := h.store.Update(c.Request.Context(), id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"mensagem": msgDonationNotFound})
			return
		}
		internalError(c, err)
		return
	}
	rec, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, donationResponse(rec))
}

// ExcluirDoacao trata DELETE /doacoes/:id.
func (h *DonationHandler) ExcluirDoacao(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
