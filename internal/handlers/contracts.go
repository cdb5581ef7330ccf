package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/services"
	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/response"
)

// ContractHandler covers contract file exchange in both directions: issued
// contracts flowing to clients and signed documents flowing back.
type ContractHandler struct {
	leads      *services.LeadService
	contracts  *services.ContractService
	uploadsDir string
}

// NewContractHandler constructs a ContractHandler storing files under uploadsDir.
func NewContractHandler(leads *services.LeadService, contracts *services.ContractService, uploadsDir string) *ContractHandler {
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	return &ContractHandler{leads: leads, contracts: contracts, uploadsDir: uploadsDir}
}

// PathByEmail returns the latest contract path for a lead, addressed by
// email. Used by the portal download button.
func (h *ContractHandler) PathByEmail(c *gin.Context) {
	email := c.Param("email")

	lead, err := h.leads.FindByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	contract, err := h.contracts.LatestContract(c.Request.Context(), lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"path":      contract.FilePath,
		"file_name": contract.FileName,
	})
}

// UploadContract stores a contract file for a lead. Admin only.
func (h *ContractHandler) UploadContract(c *gin.Context) {
	leadID := c.Param("id")

	if _, err := h.leads.FindByID(c.Request.Context(), leadID); err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("contract")
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("A contract file is required"))
		return
	}

	stored, err := saveUpload(c, file, filepath.Join(h.uploadsDir, "contracts"))
	if err != nil {
		response.Error(c, err)
		return
	}

	contract, err := h.contracts.AddContract(c.Request.Context(), leadID, stored, file.Filename, "admin")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Contract uploaded.", contract)
}

type reviewDocumentRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=accepted rejected"`
}

// ReviewDocument records the operator's verdict on a submitted document.
func (h *ContractHandler) ReviewDocument(c *gin.Context) {
	var req reviewDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	doc, err := h.contracts.ReviewSignedDocument(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Document reviewed.", doc)
}

// UploadSignedDocument stores a signed contract submitted by the client.
func (h *ContractHandler) UploadSignedDocument(c *gin.Context) {
	email, err := currentEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	lead, err := h.leads.FindByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("document")
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("A document file is required"))
		return
	}

	stored, err := saveUpload(c, file, filepath.Join(h.uploadsDir, "signed"))
	if err != nil {
		response.Error(c, err)
		return
	}

	doc, err := h.contracts.AddSignedDocument(c.Request.Context(), lead.ID, file.Filename, stored, file.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Document submitted for review.", doc)
}
