package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	color_code VARCHAR(20) UNIQUE NOT NULL,
	name_ar VARCHAR(50) NOT NULL,
	name_en VARCHAR(50) NOT NULL,
	hex VARCHAR(10) NOT NULL DEFAULT '#888888',
	sort_order INT NOT NULL DEFAULT 0,
	stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pack_configs (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	size INT UNIQUE NOT NULL,
	title_ar VARCHAR(100) NOT NULL,
	title_en VARCHAR(100) NOT NULL,
	desc_ar TEXT NOT NULL DEFAULT '',
	desc_en TEXT NOT NULL DEFAULT '',
	badge VARCHAR(50) NOT NULL DEFAULT '',
	sort_order INT NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	order_code VARCHAR(15) UNIQUE NOT NULL,
	language VARCHAR(2) NOT NULL,
	pack_size INT NOT NULL,
	total_price INT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
	customer_name VARCHAR(100) NOT NULL,
	customer_mobile VARCHAR(20) NOT NULL,
	customer_city VARCHAR(50) NOT NULL,
	customer_address TEXT NOT NULL,
	preferred_time VARCHAR(20) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	order_id UUID REFERENCES orders(id) ON DELETE CASCADE,
	color_code VARCHAR(20) NOT NULL,
	qty INT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS admin_settings (
	key VARCHAR(50) PRIMARY KEY,
	value JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS image_assets (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	category VARCHAR(20) NOT NULL,
	ref_key VARCHAR(30) NOT NULL,
	image_url TEXT NOT NULL,
	sort_order INT NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(category, ref_key, sort_order)
);
`

const seedSettings = `
INSERT INTO admin_settings (key, value) VALUES
	('pack_prices', '{"2": 50, "3": 65, "4": 80}'),
	('delivery_fee', '0'),
	('min_order', '1'),
	('whatsapp_number', '"971500000000"'),
	('store_active', 'true')
`

const seedInventory = `
INSERT INTO inventory_items (color_code, name_ar, name_en, hex, sort_order, stock) VALUES
	('BROWN', 'رمل البحر', 'Sea Sand', '#D2B48C', 0, 32),
	('BLUE', 'سماء دبي', 'Dubai Sky', '#4A90E2', 1, 35),
	('PINK', 'ورد جوري', 'Damask Rose', '#F4C2C2', 2, 46),
	('BLACK', 'ليل عميق', 'Deep Night', '#2C2C2C', 3, 9),
	('GREEN', 'واحة خضراء', 'Green Oasis', '#4F7942', 4, 37),
	('BLUE_DOTS', 'غمام أبيض', 'White Clouds', '#F5F5DC', 5, 35),
	('BROWN_DOTS', 'أرض طيبة', 'Good Earth', '#8B4513', 6, 34)
`

const seedPacks = `
INSERT INTO pack_configs (size, title_ar, title_en, desc_ar, desc_en, badge, sort_order) VALUES
	(2, 'مزاج الهدوء ☕', 'Serenity Duo', 'مثالي للحظاتك الخاصة أو كهدية رقيقة.', 'Perfect for your private moments or a gentle gift.', 'لذيذ', 0),
	(3, 'طاقة المكتب ✨', 'Office Energy', 'لأيام العمل الطويلة، طقم يبعث فيك الحيوية.', 'For long workdays, a set that boosts your energy.', 'الأكثر حيوية 🔥', 1),
	(4, 'الضيافة الملكية 👑', 'Royal Hosting', 'كن المضيف الأروع، ألوان تخطف الأنظار.', 'Be the coolest host, colors that catch eyes.', 'قيمة مذهلة 💎', 2)
`

// Migrate creates the schema and seeds settings, colors and packs when the
// tables are empty. Safe to run on every start.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return err
	}
	for _, s := range []struct{ table, seed string }{
		{"admin_settings", seedSettings},
		{"inventory_items", seedInventory},
		{"pack_configs", seedPacks},
	} {
		var n int
		if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM `+s.table).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := db.Exec(ctx, s.seed); err != nil {
			return err
		}
	}
	return nil
}
