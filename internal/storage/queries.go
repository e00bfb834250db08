package storage

const (
	// User queries
	CreateUserQuery = `
		INSERT INTO users (email, full_name)
		VALUES ($1, $2)
		RETURNING id, email, full_name, is_active, created_at, updated_at
	`

	GetUserByEmailQuery = `
		SELECT id, email, full_name, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	GetUserByIDQuery = `
		SELECT id, email, full_name, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	// OTP queries
	CreateOtpQuery = `
		INSERT INTO user_otps (user_id, otp_hash, expires_at)
		VALUES ($1, $2, $3)
	`

	// Последний выданный код пользователя
	GetLatestOtpQuery = `
		SELECT id, user_id, otp_hash, expires_at, consumed_at, created_at
		FROM user_otps
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	ConsumeOtpQuery = `
		UPDATE user_otps
		SET consumed_at = now()
		WHERE id = $1 AND consumed_at IS NULL
	`

	// Sender queries
	CreateSenderQuery = `
		INSERT INTO senders (full_name, phone, address, country, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, full_name, phone, address, country, created_by_user_id, is_active, created_at, updated_at
	`

	// Только активный и принадлежащий пользователю отправитель
	FindActiveOwnedSenderQuery = `
		SELECT id, full_name, phone, address, country, created_by_user_id, is_active, created_at, updated_at
		FROM senders
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
	`

	CountSendersQuery = `
		SELECT COUNT(*)
		FROM senders
		WHERE is_active = TRUE
		  AND created_by_user_id = $1
		  AND ($2::text IS NULL OR full_name ILIKE $2 OR phone ILIKE $2)
	`

	ListSendersQuery = `
		SELECT id, full_name, phone, address, country, created_by_user_id, is_active, created_at, updated_at
		FROM senders
		WHERE is_active = TRUE
		  AND created_by_user_id = $1
		  AND ($2::text IS NULL OR full_name ILIKE $2 OR phone ILIKE $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4
	`

	UpdateSenderQuery = `
		UPDATE senders
		SET full_name = COALESCE($3, full_name),
		    phone     = COALESCE($4, phone),
		    address   = COALESCE($5, address),
		    country   = COALESCE($6, country),
		    updated_at = now()
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
		RETURNING id, full_name, phone, address, country, created_by_user_id, is_active, created_at, updated_at
	`

	// Мягкое удаление
	DeactivateSenderQuery = `
		UPDATE senders
		SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
	`

	// Receiver queries
	CreateReceiverQuery = `
		INSERT INTO receivers (full_name, phone, address, country, bank_name, bank_account, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, full_name, phone, address, country, bank_name, bank_account, created_by_user_id, is_active, created_at, updated_at
	`

	FindActiveOwnedReceiverQuery = `
		SELECT id, full_name, phone, address, country, bank_name, bank_account, created_by_user_id, is_active, created_at, updated_at
		FROM receivers
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
	`

	CountReceiversQuery = `
		SELECT COUNT(*)
		FROM receivers
		WHERE is_active = TRUE
		  AND created_by_user_id = $1
		  AND ($2::text IS NULL OR full_name ILIKE $2 OR phone ILIKE $2)
	`

	ListReceiversQuery = `
		SELECT id, full_name, phone, address, country, bank_name, bank_account, created_by_user_id, is_active, created_at, updated_at
		FROM receivers
		WHERE is_active = TRUE
		  AND created_by_user_id = $1
		  AND ($2::text IS NULL OR full_name ILIKE $2 OR phone ILIKE $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4
	`

	UpdateReceiverQuery = `
		UPDATE receivers
		SET full_name    = COALESCE($3, full_name),
		    phone        = COALESCE($4, phone),
		    address      = COALESCE($5, address),
		    country      = COALESCE($6, country),
		    bank_name    = COALESCE($7, bank_name),
		    bank_account = COALESCE($8, bank_account),
		    updated_at   = now()
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
		RETURNING id, full_name, phone, address, country, bank_name, bank_account, created_by_user_id, is_active, created_at, updated_at
	`

	DeactivateReceiverQuery = `
		UPDATE receivers
		SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
	`

	// Transaction queries.
	// Уникальность event_id — единственный идемпотентный замок:
	// повторная доставка события даёт ноль вставленных строк.
	InsertTransactionIfNewQuery = `
		INSERT INTO transactions (
			event_id, created_by_user_id, sender_id, receiver_id,
			source_amount, source_currency, dest_currency, exchange_rate,
			dest_amount, fee, total_dest_amount, status, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (event_id) DO NOTHING
	`

	GetTransactionByIDQuery = `
		SELECT id, event_id, created_by_user_id, sender_id, receiver_id,
		       source_amount, source_currency, dest_currency, exchange_rate,
		       dest_amount, fee, total_dest_amount, status, note, is_active, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2
	`

	CountTransactionsQuery = `
		SELECT COUNT(*)
		FROM transactions t
		WHERE t.is_active = TRUE
		  AND t.created_by_user_id = $1
		  AND ($2::text IS NULL OR t.status = $2)
	`

	ListTransactionsQuery = `
		SELECT t.id, t.event_id, t.created_by_user_id, t.sender_id, t.receiver_id,
		       t.source_amount, t.source_currency, t.dest_currency, t.exchange_rate,
		       t.dest_amount, t.fee, t.total_dest_amount, t.status, t.note, t.is_active, t.created_at, t.updated_at,
		       s.full_name AS sender_name, s.phone AS sender_phone,
		       r.full_name AS receiver_name, r.phone AS receiver_phone
		FROM transactions t
		JOIN senders s ON s.id = t.sender_id
		JOIN receivers r ON r.id = t.receiver_id
		WHERE t.is_active = TRUE
		  AND t.created_by_user_id = $1
		  AND ($2::text IS NULL OR t.status = $2)
		ORDER BY t.created_at DESC
		OFFSET $3 LIMIT $4
	`

	// Статус меняется только из PENDING
	UpdateTransactionStatusQuery = `
		UPDATE transactions
		SET status = $3, updated_at = now()
		WHERE id = $1 AND is_active = TRUE AND created_by_user_id = $2 AND status = 'PENDING'
		RETURNING id, event_id, created_by_user_id, sender_id, receiver_id,
		          source_amount, source_currency, dest_currency, exchange_rate,
		          dest_amount, fee, total_dest_amount, status, note, is_active, created_at, updated_at
	`
)
