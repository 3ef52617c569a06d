package repositories

import (
	"context"
	"time"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on MySQL, Postgres or SQLite through gorm.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// Migrate creates or updates the six tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Route{},
		&models.Ticket{},
		&models.Setting{},
		&models.Activity{},
	)
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// ----- users -----

func (s *GormStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.conn(ctx).First(&u, id).Error
	return u, mapError(err, "User", nil)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.conn(ctx).Where("username = ?", username).First(&u).Error
	return u, mapError(err, "User", nil)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	err := s.conn(ctx).Order("id asc").Find(&out).Error
	return out, mapError(err, "User", nil)
}

func usernameExists(tx *gorm.DB, username string, exceptID int64) (bool, error) {
	var n int64
	q := tx.Model(&models.User{}).Where("username = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *GormStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.ID = 0
	u.LastLogin = nil
	u.Token = nil
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := usernameExists(tx, u.Username, 0)
		if err != nil {
			return err
		}
		if taken {
			return errUsernameTaken
		}
		return tx.Create(&u).Error
	})
	return u, mapError(err, "User", errUsernameTaken)
}

func (s *GormStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	var u models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		if patch.Username.Set {
			taken, err := usernameExists(tx, patch.Username.Value, id)
			if err != nil {
				return err
			}
			if taken {
				return errUsernameTaken
			}
		}
		patch.ApplyTo(&u)
		return tx.Model(&models.User{ID: id}).
			Select("username", "password", "email", "full_name", "role", "active").
			Updates(&u).Error
	})
	return u, mapError(err, "User", errUsernameTaken)
}

func (s *GormStore) SetUserToken(ctx context.Context, id int64, token *string, loginAt *time.Time) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id").First(&u, id).Error; err != nil {
			return err
		}
		updates := map[string]any{"token": nil}
		if token != nil {
			updates["token"] = *token
		}
		if loginAt != nil {
			updates["last_login"] = *loginAt
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
	})
	return mapError(err, "User", nil)
}

func (s *GormStore) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res := s.conn(ctx).Delete(&models.User{}, id)
	return res.RowsAffected > 0, mapError(res.Error, "User", nil)
}

// ----- vendors -----

func (s *GormStore) GetVendor(ctx context.Context, id int64) (models.Vendor, error) {
	var v models.Vendor
	err := s.conn(ctx).First(&v, id).Error
	return v, mapError(err, "Vendor", nil)
}

func (s *GormStore) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	out := []models.Vendor{}
	err := s.conn(ctx).Order("id asc").Find(&out).Error
	return out, mapError(err, "Vendor", nil)
}

func (s *GormStore) CreateVendor(ctx context.Context, v models.Vendor) (models.Vendor, error) {
	v.ID = 0
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}
	err := s.conn(ctx).Create(&v).Error
	return v, mapError(err, "Vendor", nil)
}

func (s *GormStore) UpdateVendor(ctx context.Context, id int64, patch models.VendorPatch) (models.Vendor, error) {
	var v models.Vendor
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&v, id).Error; err != nil {
			return err
		}
		patch.ApplyTo(&v)
		return tx.Save(&v).Error
	})
	return v, mapError(err, "Vendor", nil)
}

func (s *GormStore) DeleteVendor(ctx context.Context, id int64) (bool, error) {
	res := s.conn(ctx).Delete(&models.Vendor{}, id)
	return res.RowsAffected > 0, mapError(res.Error, "Vendor", nil)
}

// ----- routes -----

func (s *GormStore) GetRoute(ctx context.Context, id int64) (models.Route, error) {
	var r models.Route
	err := s.conn(ctx).First(&r, id).Error
	return r, mapError(err, "Route", nil)
}

func (s *GormStore) ListRoutes(ctx context.Context) ([]models.Route, error) {
	out := []models.Route{}
	err := s.conn(ctx).Order("id asc").Find(&out).Error
	return out, mapError(err, "Route", nil)
}

func (s *GormStore) ListRoutesByVendor(ctx context.Context, vendorID int64) ([]models.Route, error) {
	out := []models.Route{}
	err := s.conn(ctx).Where("vendor_id = ?", vendorID).Order("id asc").Find(&out).Error
	return out, mapError(err, "Route", nil)
}

func (s *GormStore) CreateRoute(ctx context.Context, r models.Route) (models.Route, error) {
	r.ID = 0
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	err := s.conn(ctx).Create(&r).Error
	return r, mapError(err, "Route", nil)
}

func (s *GormStore) UpdateRoute(ctx context.Context, id int64, patch models.RoutePatch) (models.Route, error) {
	var r models.Route
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, id).Error; err != nil {
			return err
		}
		patch.ApplyTo(&r)
		return tx.Save(&r).Error
	})
	return r, mapError(err, "Route", nil)
}

func (s *GormStore) DeleteRoute(ctx context.Context, id int64) (bool, error) {
	res := s.conn(ctx).Delete(&models.Route{}, id)
	return res.RowsAffected > 0, mapError(res.Error, "Route", nil)
}

// ----- tickets -----

func (s *GormStore) GetTicket(ctx context.Context, id int64) (models.Ticket, error) {
	var t models.Ticket
	err := s.conn(ctx).First(&t, id).Error
	return t, mapError(err, "Ticket", nil)
}

func (s *GormStore) GetTicketByReference(ctx context.Context, reference string) (models.Ticket, error) {
	var t models.Ticket
	err := s.conn(ctx).Where("booking_reference = ?", reference).First(&t).Error
	return t, mapError(err, "Ticket", nil)
}

func (s *GormStore) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	out := []models.Ticket{}
	err := s.conn(ctx).Order("id asc").Find(&out).Error
	return out, mapError(err, "Ticket", nil)
}

func (s *GormStore) ListTicketsByRoute(ctx context.Context, routeID int64) ([]models.Ticket, error) {
	out := []models.Ticket{}
	err := s.conn(ctx).Where("route_id = ?", routeID).Order("id asc").Find(&out).Error
	return out, mapError(err, "Ticket", nil)
}

func (s *GormStore) ListTicketsByVendor(ctx context.Context, vendorID int64) ([]models.Ticket, error) {
	out := []models.Ticket{}
	err := s.conn(ctx).Where("vendor_id = ?", vendorID).Order("id asc").Find(&out).Error
	return out, mapError(err, "Ticket", nil)
}

func (s *GormStore) CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	t.ID = 0
	if t.BookingDate.IsZero() {
		t.BookingDate = s.now()
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Ticket{}).Where("booking_reference = ?", t.BookingReference).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errReferenceTaken
		}
		return tx.Create(&t).Error
	})
	return t, mapError(err, "Ticket", errReferenceTaken)
}

func (s *GormStore) UpdateTicket(ctx context.Context, id int64, patch models.TicketPatch) (models.Ticket, error) {
	var t models.Ticket
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		patch.ApplyTo(&t)
		return tx.Save(&t).Error
	})
	return t, mapError(err, "Ticket", nil)
}

// ----- settings -----

func (s *GormStore) GetSetting(ctx context.Context, name string) (models.Setting, error) {
	var st models.Setting
	err := s.conn(ctx).Where("name = ?", name).First(&st).Error
	return st, mapError(err, "Setting", nil)
}

func (s *GormStore) ListSettings(ctx context.Context) ([]models.Setting, error) {
	out := []models.Setting{}
	err := s.conn(ctx).Order("id asc").Find(&out).Error
	return out, mapError(err, "Setting", nil)
}

func (s *GormStore) UpsertSetting(ctx context.Context, name, value string) (models.Setting, error) {
	st := models.Setting{Name: name, Value: value, UpdatedAt: s.now()}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&st).Error
		if err != nil {
			return err
		}
		// MySQL reports a LastInsertId on the update branch too, so st.ID is unreliable here
		var stored models.Setting
		if err := tx.Where("name = ?", name).First(&stored).Error; err != nil {
			return err
		}
		st = stored
		return nil
	})
	return st, mapError(err, "Setting", nil)
}

// ----- activities -----

func (s *GormStore) CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = 0
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	if a.Details == nil {
		a.Details = models.Details{}
	}
	err := s.conn(ctx).Create(&a).Error
	return a, mapError(err, "Activity", nil)
}

func (s *GormStore) ListActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = domain.DefaultActivityLimit
	}
	out := []models.Activity{}
	err := s.conn(ctx).Order("timestamp desc").Order("id desc").Limit(limit).Find(&out).Error
	return out, mapError(err, "Activity", nil)
}
