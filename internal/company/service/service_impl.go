package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/invoq/invoq/internal/company/domain"
	"github.com/invoq/invoq/internal/userctx"
	"github.com/invoq/invoq/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Company]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Company](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCompanyRequest) (domain.Company, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Company{}, domain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}

	accounts, err := marshalAccounts(req.AccountDetails)
	if err != nil {
		return domain.Company{}, err
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:             s.genID.Generate(),
		UserID:         userID,
		Name:           name,
		Logo:           strings.TrimSpace(req.Logo),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		State:          strings.TrimSpace(req.State),
		Country:        strings.TrimSpace(req.Country),
		Website:        strings.TrimSpace(req.Website),
		AccountDetails: accounts,
		IsDefault:      req.IsDefault,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if company.IsDefault {
		if err := s.clearDefault(ctx, userID); err != nil {
			return domain.Company{}, err
		}
	}
	if err := s.repo.Create(ctx, &company); err != nil {
		return domain.Company{}, err
	}

	return company, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Company, error) {
	company, err := s.find(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Company, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	items, err := s.repo.Find(ctx, &domain.Company{UserID: userID},
		repository.OrderBy("created_at desc"))
	if err != nil {
		return nil, err
	}

	companies := make([]domain.Company, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		companies = append(companies, *item)
	}
	return companies, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	company, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Company{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Company{}, domain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Logo != nil {
		company.Logo = strings.TrimSpace(*req.Logo)
	}
	if req.Email != nil {
		company.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		company.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		company.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		company.Country = strings.TrimSpace(*req.Country)
	}
	if req.Website != nil {
		company.Website = strings.TrimSpace(*req.Website)
	}
	if req.AccountDetails != nil {
		accounts, err := marshalAccounts(*req.AccountDetails)
		if err != nil {
			return domain.Company{}, err
		}
		company.AccountDetails = accounts
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !company.IsDefault {
			if err := s.clearDefault(ctx, company.UserID); err != nil {
				return domain.Company{}, err
			}
		}
		company.IsDefault = *req.IsDefault
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	company, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, company.ID.String())
}

func (s *Service) VerifyOwnership(ctx context.Context, id string) error {
	_, err := s.find(ctx, id)
	return err
}

func (s *Service) find(ctx context.Context, id string) (*domain.Company, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || companyID == 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Company{ID: companyID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// clearDefault demotes the owner's current default issuer, keeping at most
// one default per owner.
func (s *Service) clearDefault(ctx context.Context, userID snowflake.ID) error {
	return s.db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func marshalAccounts(accounts []domain.AccountDetail) (datatypes.JSON, error) {
	if len(accounts) == 0 {
		return datatypes.JSON("[]"), nil
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
