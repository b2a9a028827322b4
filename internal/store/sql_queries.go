package store

const (
	enqueueOperation = `
		INSERT INTO pending_operations (
			id,
			op_type,
			table_name,
			payload,
			ts,
			retry_count
		) VALUES ($1, $2, $3, $4, $5, $6);`

	dequeueOperation = `
		SELECT
			id,
			op_type,
			table_name,
			payload,
			ts,
			retry_count
		FROM pending_operations
		ORDER BY ts ASC
		LIMIT 1;`

	listOperations = `
		SELECT
			id,
			op_type,
			table_name,
			payload,
			ts,
			retry_count
		FROM pending_operations
		ORDER BY ts ASC;`

	removeOperation = `
		DELETE FROM pending_operations
		WHERE id = $1;`

	incrementOperationRetry = `
		UPDATE pending_operations
		SET retry_count = retry_count + 1
		WHERE id = $1;`

	countOperations = `
		SELECT COUNT(*) FROM pending_operations;`

	enqueueUpload = `
		INSERT INTO pending_uploads (
			id,
			file_name,
			local_path,
			bucket,
			object_path,
			status,
			retries,
			enqueued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	listUploads = `
		SELECT
			id,
			file_name,
			local_path,
			bucket,
			object_path,
			status,
			retries,
			enqueued_at
		FROM pending_uploads
		ORDER BY enqueued_at ASC;`

	removeUpload = `
		DELETE FROM pending_uploads
		WHERE id = $1;`

	incrementUploadRetry = `
		UPDATE pending_uploads
		SET retries = retries + 1
		WHERE id = $1;`

	countUploads = `
		SELECT COUNT(*) FROM pending_uploads;`

	saveSession = `
		INSERT INTO sessions (slot, access_token, refresh_token, user_id, expires_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (slot) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			user_id       = excluded.user_id,
			expires_at    = excluded.expires_at;`

	getSession = `
		SELECT access_token, refresh_token, user_id, expires_at
		FROM sessions
		WHERE slot = 1;`

	removeSession = `
		DELETE FROM sessions;`

	saveUser = `
		INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			email      = excluded.email,
			created_at = excluded.created_at;`

	getUser = `
		SELECT id, email, created_at
		FROM users
		WHERE id = $1;`

	saveProfile = `
		INSERT INTO user_profiles (id, user_id, full_name, role, organization_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			user_id         = excluded.user_id,
			full_name       = excluded.full_name,
			role            = excluded.role,
			organization_id = excluded.organization_id,
			updated_at      = excluded.updated_at;`

	getProfileByUser = `
		SELECT id, user_id, full_name, role, organization_id, updated_at
		FROM user_profiles
		WHERE user_id = $1;`

	saveOrganization = `
		INSERT INTO organizations (id, name, license_key, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name        = excluded.name,
			license_key = excluded.license_key,
			created_at  = excluded.created_at;`

	getOrganization = `
		SELECT id, name, license_key, created_at
		FROM organizations
		WHERE id = $1;`

	purgeAuthCache = `
		DELETE FROM sessions;
		DELETE FROM users;
		DELETE FROM user_profiles;
		DELETE FROM organizations;`

	upsertMirrorRecord = `
		INSERT INTO table_mirror (table_name, id, organization_id, updated_at, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (table_name, id) DO UPDATE SET
			organization_id = excluded.organization_id,
			updated_at      = excluded.updated_at,
			payload         = excluded.payload;`
)
